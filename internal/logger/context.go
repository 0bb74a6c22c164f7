package logger

import "context"

type fieldsKey struct{}

type field struct {
	key   string
	value string
}

// WithField returns a context whose log lines carry key=value.
func WithField(ctx context.Context, key, value string) context.Context {
	prev := fieldsFrom(ctx)
	next := make([]field, 0, len(prev)+1)
	for _, f := range prev {
		if f.key != key {
			next = append(next, f)
		}
	}
	next = append(next, field{key: key, value: value})
	return context.WithValue(ctx, fieldsKey{}, next)
}

// Field returns the value stored under key by WithField.
func Field(ctx context.Context, key string) string {
	for _, f := range fieldsFrom(ctx) {
		if f.key == key {
			return f.value
		}
	}
	return ""
}

func fieldsFrom(ctx context.Context) []field {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey{}).([]field)
	return fields
}
