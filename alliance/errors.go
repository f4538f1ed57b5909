package alliance

import "errors"

// ErrPermissionDenied indicates that the platform refused a nickname edit for lack of permission.
// NicknameEditor implementations wrap or return it so the reconciler can tell it apart from other failures.
var ErrPermissionDenied = errors.New("permission denied")

// ErrEmptyTag indicates a tag table entry with an empty prefix.
var ErrEmptyTag = errors.New("alliance tag must not be empty")

// ErrNoKeywords indicates a responder configured without any trigger keyword.
var ErrNoKeywords = errors.New("at least one trigger keyword is required")
