package core

import "ltc690x-go/errcode"

// As asserts a control payload to T. Both T and a non-nil *T are accepted.
// A nil payload is treated as the zero value of T.
func As[T any](v any) (T, errcode.Code) {
	var zero T
	switch x := v.(type) {
	case nil:
		return zero, ""
	case T:
		return x, ""
	case *T:
		if x == nil {
			return zero, errcode.InvalidPayload
		}
		return *x, ""
	}
	return zero, errcode.InvalidPayload
}
