package auth

import "context"

type subjectKey struct{}

// WithSubject stores the authenticated username. Import handlers record it
// as the content author.
func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, subjectKey{}, sub)
}

func SubjectFromContext(ctx context.Context) string {
	sub, _ := ctx.Value(subjectKey{}).(string)
	return sub
}
