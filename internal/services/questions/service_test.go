package questions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/triviad/triviad/internal/model"
	"github.com/triviad/triviad/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New(testutil.NopLogger())
}

func (s *ServiceSuite) writeSource(lines string) string {
	path := filepath.Join(s.T().TempDir(), "questions.txt")
	s.Require().NoError(os.WriteFile(path, []byte(lines), 0o600))
	return path
}

func (s *ServiceSuite) TestLoadFromFile() {
	path := s.writeSource("What is 6 x 7?|42\nFirst programmer?|Ada Lovelace\n")

	err := s.service.LoadFromFile(model.ThemeTech, path)
	s.Require().NoError(err)

	s.Equal(2, s.service.Count(model.ThemeTech))

	q, err := s.service.Question(model.ThemeTech, 0)
	s.Require().NoError(err)
	s.Equal("What is 6 x 7?", q.Text)
	s.Equal("42", q.Answer)
}

func (s *ServiceSuite) TestLoadPreservesOrder() {
	path := s.writeSource("q1|a1\nq2|a2\nq3|a3\n")

	s.Require().NoError(s.service.LoadFromFile(model.ThemeGeneral, path))

	for i, want := range []string{"q1", "q2", "q3"} {
		q, err := s.service.Question(model.ThemeGeneral, i)
		s.Require().NoError(err)
		s.Equal(want, q.Text)
	}
}

func (s *ServiceSuite) TestLoadSkipsMalformedLines() {
	path := s.writeSource("no delimiter here\nq1|a1\n\nq2|a2\n")

	s.Require().NoError(s.service.LoadFromFile(model.ThemeTech, path))
	s.Equal(2, s.service.Count(model.ThemeTech))
}

func (s *ServiceSuite) TestLoadMissingFile() {
	err := s.service.LoadFromFile(model.ThemeTech, "does/not/exist.txt")
	s.Error(err)
}

func (s *ServiceSuite) TestLoadEmptySource() {
	path := s.writeSource("nothing useful\n")

	err := s.service.LoadFromFile(model.ThemeTech, path)
	s.ErrorIs(err, model.ErrQuestionsNotLoaded)
}

func (s *ServiceSuite) TestQuestionOutOfRange() {
	s.service.LoadQuestions(model.ThemeTech, []model.Question{{Text: "q", Answer: "a"}})

	_, err := s.service.Question(model.ThemeTech, 1)
	s.ErrorIs(err, model.ErrQuestionOutOfRange)

	_, err = s.service.Question(model.ThemeTech, -1)
	s.ErrorIs(err, model.ErrQuestionOutOfRange)
}

func (s *ServiceSuite) TestQuestionUnloadedTheme() {
	_, err := s.service.Question(model.ThemeGeneral, 0)
	s.ErrorIs(err, model.ErrQuestionsNotLoaded)
}

func (s *ServiceSuite) TestAnswerPreservesSpacesAroundDelimiterSides() {
	path := s.writeSource("Question with spaces? | spaced answer\n")

	s.Require().NoError(s.service.LoadFromFile(model.ThemeTech, path))

	q, err := s.service.Question(model.ThemeTech, 0)
	s.Require().NoError(err)
	s.Equal("Question with spaces? ", q.Text)
	s.Equal(" spaced answer", q.Answer)
}
