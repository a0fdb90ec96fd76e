package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizgate/internal/catalog"
)

func TestParseAnswers(t *testing.T) {
	got, err := parseAnswers(" q1=B, q2 = a ,,q3=d")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"q1": "b", "q2": "a", "q3": "d"}, got)

	for _, raw := range []string{"", "q1", "q1=", "=b", "q1=a,q1=b"} {
		_, err := parseAnswers(raw)
		assert.Error(t, err, "parseAnswers(%q)", raw)
	}
}

// cli runs the command tree against an isolated database, config and
// session directory.
type cli struct {
	t  *testing.T
	db string
}

func newCLI(t *testing.T) *cli {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return &cli{t: t, db: filepath.Join(dir, "quizgate.db")}
}

func (c *cli) run(stdin string, args ...string) (stdout, stderr string, err error) {
	c.t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--db", c.db}, args...))
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func allCorrect(t *testing.T, quizID string) string {
	t.Helper()
	q, ok := catalog.Default().Quiz(quizID)
	require.True(t, ok)
	pairs := make([]string, 0, len(q.Questions))
	for _, qq := range q.Questions {
		pairs = append(pairs, qq.ID+"="+qq.Answer)
	}
	return strings.Join(pairs, ",")
}

func TestCLI_LearnerJourney(t *testing.T) {
	c := newCLI(t)

	_, stderr, err := c.run("", "courses")
	require.Error(t, err)
	assert.Contains(t, stderr, "Please log in to continue.")

	out, _, err := c.run("hunter22\nhunter22\n", "signup",
		"--name", "Grace Hopper", "--username", "grace",
		"--email", "grace@example.com", "--accept-terms")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, Grace Hopper!")

	out, _, err = c.run("", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "grace@example.com")

	out, _, err = c.run("", "courses")
	require.NoError(t, err)
	assert.Contains(t, out, "course1")
	assert.Contains(t, out, "0 of 12 courses completed (0%)")

	_, stderr, err = c.run("", "quiz", "submit", "quiz2", "--answers", allCorrect(t, "quiz2"))
	require.Error(t, err)
	assert.Contains(t, stderr, "Complete the previous course to unlock this quiz.")

	out, _, err = c.run("", "quiz", "submit", "quiz1", "--answers", allCorrect(t, "quiz1"))
	require.NoError(t, err)
	assert.Contains(t, out, "Passed")
	assert.Contains(t, out, "Course course2 is now unlocked.")

	out, _, err = c.run("", "courses")
	require.NoError(t, err)
	assert.Contains(t, out, "1 of 12 courses completed (8%)")

	out, _, err = c.run("", "history", "--kind", "attempt")
	require.NoError(t, err)
	assert.Contains(t, out, "quiz1 attempt: 100% (passed)")

	_, stderr, err = c.run("", "certificate")
	require.Error(t, err)
	assert.Contains(t, stderr, "Complete all courses to earn your certificate.")

	out, _, err = c.run("", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out.")

	_, stderr, err = c.run("", "whoami")
	require.Error(t, err)
	assert.Contains(t, stderr, "Please log in to continue.")
}

func TestCLI_LoginErrors(t *testing.T) {
	c := newCLI(t)

	_, stderr, err := c.run("hunter22\n", "login", "--email", "nobody@example.com")
	require.Error(t, err)
	assert.Contains(t, stderr, "No account found with this email address.")

	_, _, err = c.run("hunter22\nhunter22\n", "signup",
		"--name", "Alan Turing", "--username", "alan",
		"--email", "alan@example.com", "--accept-terms")
	require.NoError(t, err)

	_, stderr, err = c.run("wrong-pass\n", "login", "--email", "alan@example.com")
	require.Error(t, err)
	assert.Contains(t, stderr, "Incorrect password.")

	out, _, err := c.run("hunter22\n", "login", "--email", "alan@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Alan Turing.")
}

func TestCLI_QuizStatusWarnsAndLocks(t *testing.T) {
	c := newCLI(t)
	_, _, err := c.run("hunter22\nhunter22\n", "signup",
		"--name", "Edsger Dijkstra", "--username", "ewd",
		"--email", "ewd@example.com", "--accept-terms")
	require.NoError(t, err)

	q, _ := catalog.Default().Quiz("quiz1")
	wrong := make([]string, 0, len(q.Questions))
	for _, qq := range q.Questions {
		letter := "a"
		if qq.Answer == "a" {
			letter = "b"
		}
		wrong = append(wrong, qq.ID+"="+letter)
	}
	answers := strings.Join(wrong, ",")

	for range 3 {
		_, _, err = c.run("", "quiz", "submit", "quiz1", "--answers", answers)
		require.NoError(t, err)
	}
	out, _, err := c.run("", "quiz", "status", "quiz1")
	require.NoError(t, err)
	assert.Contains(t, out, "Only 2 attempts remaining!")

	for range 2 {
		_, _, err = c.run("", "quiz", "submit", "quiz1", "--answers", answers)
		require.NoError(t, err)
	}
	out, _, err = c.run("", "quiz", "status", "quiz1")
	require.NoError(t, err)
	assert.Contains(t, out, "Maximum attempts reached.")

	out, _, err = c.run("", "redo", "course1")
	require.NoError(t, err)
	assert.Contains(t, out, "Attempts for course1 cleared.")

	out, _, err = c.run("", "quiz", "status", "quiz1")
	require.NoError(t, err)
	assert.Contains(t, out, "0 of 5 used, 5 remaining")
}
