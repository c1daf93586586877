package model

// Question is one question/expected-answer pair. Immutable after load.
type Question struct {
	Text   string
	Answer string
}
