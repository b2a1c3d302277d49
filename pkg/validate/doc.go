/*
Package validate guards every public baasclient operation against malformed input
before a request is built.

Each check takes the caller's field name, the value reduced to a Value, and a
strictness flag. It returns nil or an *errors.Error whose Code is one of
missing_required_value, invalid_value or empty_array and whose Message names the
field. Checks never log, never touch the network and never mutate their input,
so they are safe to call from any goroutine.

All stricter checks start with a presence-only CheckRequired, so a missing value
is reported the same way regardless of which check saw it.

	if err := validate.First(
		validate.CheckRequired("name", validate.String(name), validate.DefaultCheckEmptyString),
		validate.ArrayRequired("tags", validate.Of(tags), true),
	); err != nil {
		return types.Fail[types.Bucket](err)
	}

Values from untyped sources go through Of, which maps Go values onto the Value
variants: nil, nil pointers, nil slices and nil maps are absent; slices and
arrays are arrays; maps and structs are objects.
*/
package validate
