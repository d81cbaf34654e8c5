package translation

import "github.com/kapu/localization-connect-go/internal/util"

// Validation is the result of measuring a candidate against a limit.
type Validation struct {
	OK      bool
	Length  int
	Overage int
}

// Validate measures text in code points. A limit <= 0 means unbounded, in
// which case the text always passes.
func Validate(text string, limit int) Validation {
	length := util.CharCount(text)
	if limit <= 0 || length <= limit {
		return Validation{OK: true, Length: length}
	}
	return Validation{OK: false, Length: length, Overage: length - limit}
}
