// Package validator builds request validation from small rules. Every rule
// is evaluated, so a response can list all offending fields at once.
//
//	err := validator.Apply(
//		validator.RequiredString("title", req.Title),
//		validator.InList("targetAudience", req.TargetAudience, allowed),
//	)
//	if ve := validator.ExtractValidationErrors(err); ve != nil {
//		// ve.Fields() -> ["title"]
//	}
package validator
