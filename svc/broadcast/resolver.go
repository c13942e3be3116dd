package broadcast

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lottomart/notifier/pkg/validator"
)

// Resolver validates requests and turns audiences into recipient sets.
type Resolver struct {
	directory   Directory
	callTimeout time.Duration
}

func NewResolver(directory Directory, cfg Config) *Resolver {
	return &Resolver{directory: directory, callTimeout: cfg.withDefaults().CallTimeout}
}

// Validate checks the request fields and returns the parsed segment.
// Failures wrap ErrInvalidRequest and carry validator.ValidationErrors.
func Validate(req Request) (Segment, error) {
	segment, parseErr := ParseSegment(req.TargetAudience)

	err := validator.Apply(
		validator.RequiredString("notificationId", req.NotificationID),
		validator.RequiredString("title", req.Title),
		validator.RequiredString("message", req.Message),
		validator.InList("targetAudience", req.TargetAudience, SegmentNames()),
		validator.When(parseErr == nil && segment == SegmentCustom,
			validator.RequiredSlice("recipients", nonBlank(req.Recipients))),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return segment, nil
}

// Resolve returns the de-duplicated recipients of req together with its
// segment. CUSTOM requests never reach the directory.
func (r *Resolver) Resolve(ctx context.Context, req Request) ([]string, Segment, error) {
	segment, err := Validate(req)
	if err != nil {
		return nil, 0, err
	}

	role, ok := segment.Role()
	if !ok {
		return Dedupe(req.Recipients), segment, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	ids, err := r.directory.ListUserIDs(callCtx, role)
	if err != nil {
		return nil, segment, errors.Join(ErrDirectory, err)
	}
	return ids, segment, nil
}

// Dedupe drops blank and repeated IDs, keeping first-appearance order.
func Dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func nonBlank(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) != "" {
			out = append(out, id)
		}
	}
	return out
}
