package protocol

// Application-level message tokens. The wire protocol carries plain UTF-8
// string payloads; these are the reserved values both sides recognize.
const (
	// Server -> client
	TokenOK                   = "OK"
	TokenNicknameUsed         = "NICKNAME_ALREADY_USED"
	TokenInvalidTheme         = "INVALID_THEME"
	TokenAlreadyCompleted     = "ALREADY_COMPLETED"
	TokenCorrect              = "CORRECT"
	TokenIncorrect            = "INCORRECT"
	TokenQuizEnded            = "QUIZ_ENDED"
	TokenCompletedQuiz        = "COMPLETED_QUIZ"
	TokenBothQuizzesCompleted = "BOTH_QUIZZES_COMPLETED"
	TokenServerTerminated     = "SERVER_TERMINATED"

	// Client -> server
	TokenClientFinished = "CLIENT_FINISHED"

	// Reserved answer tokens, recognized before answer matching in every
	// question of every theme. An answer literally equal to one of these is
	// indistinguishable from the command; accepted limitation.
	CommandShowScore = "show score"
	CommandEndQuiz   = "endquiz"
)
