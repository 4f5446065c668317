package model

import "errors"

// ErrMalformedValue is returned when cached or source text cannot be read back into its typed form
var ErrMalformedValue = errors.New("malformed value")

// Separator joins the fields of a cached value. It must not occur in identifiers or names.
const Separator = "§"

// ListSeparator joins the elements of a cached list
const ListSeparator = "¤"
