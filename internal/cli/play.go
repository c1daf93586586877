package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/triviad/triviad/internal/model"
	"github.com/triviad/triviad/internal/protocol"
)

// completionPrefix distinguishes the end-of-theme summary frame from the next
// question, which otherwise share a frame type. A question whose text starts
// with this string would be mistaken for the summary; accepted limitation.
const completionPrefix = "Quiz complete!"

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Connect to the server and play a quiz interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := Dial(cfg.ServerAddr)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			session := &playSession{
				client: client,
				input:  bufio.NewScanner(os.Stdin),
			}
			return session.run()
		},
	}
}

// playSession drives the interactive client side of the quiz protocol
type playSession struct {
	client *Client
	input  *bufio.Scanner
}

func (p *playSession) run() error {
	if err := p.register(); err != nil {
		return err
	}

	for {
		done, err := p.selectTheme()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// register prompts for nicknames until the server accepts one
func (p *playSession) register() error {
	for {
		nickname, err := p.prompt("Enter your nickname: ")
		if err != nil {
			return err
		}

		if err := p.client.Send(nickname); err != nil {
			return err
		}
		reply, err := p.client.Receive()
		if err != nil {
			return err
		}

		switch reply {
		case protocol.TokenOK:
			fmt.Printf("Welcome, %s!\n", nickname)
			return nil
		case protocol.TokenNicknameUsed:
			fmt.Println("That nickname is already in use. Try another one.")
		case protocol.TokenServerTerminated:
			fmt.Println("Server is shutting down.")
			return nil
		default:
			return fmt.Errorf("unexpected server reply: %q", reply)
		}
	}
}

// selectTheme shows the theme menu and runs the quiz for the chosen theme.
// Returns done=true when the session is over.
func (p *playSession) selectTheme() (bool, error) {
	for {
		fmt.Println()
		fmt.Println("Available themes:")
		fmt.Printf("  %s - %s\n", model.ThemeTokenTech, model.ThemeTech.DisplayName())
		fmt.Printf("  %s - %s\n", model.ThemeTokenGeneral, model.ThemeGeneral.DisplayName())

		choice, err := p.prompt("Choose a theme: ")
		if err != nil {
			return false, err
		}

		if err := p.client.Send(choice); err != nil {
			return false, err
		}
		reply, err := p.client.Receive()
		if err != nil {
			return false, err
		}

		switch reply {
		case protocol.TokenOK:
			return p.playQuiz()
		case protocol.TokenInvalidTheme:
			fmt.Println("That is not a valid theme.")
		case protocol.TokenAlreadyCompleted:
			fmt.Println("You have already completed that theme.")
		case protocol.TokenServerTerminated:
			fmt.Println("Server is shutting down.")
			return true, nil
		default:
			return false, fmt.Errorf("unexpected server reply: %q", reply)
		}
	}
}

// playQuiz answers questions until the theme completes or the player ends
// the quiz. Returns done=true when both themes are completed.
func (p *playSession) playQuiz() (bool, error) {
	message, err := p.client.Receive()
	if err != nil {
		return false, err
	}

	for {
		if message == protocol.TokenServerTerminated {
			fmt.Println("Server is shutting down.")
			return true, nil
		}

		fmt.Printf("\nQuestion: %s\n", message)
		answer, err := p.prompt("> ")
		if err != nil {
			return false, err
		}

		if err := p.client.Send(answer); err != nil {
			return false, err
		}

		switch answer {
		case protocol.CommandShowScore:
			summary, err := p.client.Receive()
			if err != nil {
				return false, err
			}
			fmt.Println(summary)
			// The server repeats the question
			message, err = p.client.Receive()
			if err != nil {
				return false, err
			}
			continue

		case protocol.CommandEndQuiz:
			ack, err := p.client.Receive()
			if err != nil {
				return false, err
			}
			if ack != protocol.TokenQuizEnded {
				return false, fmt.Errorf("unexpected server reply: %q", ack)
			}
			fmt.Println("Quiz ended. You can pick another theme.")
			return false, nil
		}

		verdict, err := p.client.Receive()
		if err != nil {
			return false, err
		}
		switch verdict {
		case protocol.TokenCorrect:
			fmt.Println("Correct!")
		case protocol.TokenIncorrect:
			fmt.Println("Incorrect.")
		case protocol.TokenServerTerminated:
			fmt.Println("Server is shutting down.")
			return true, nil
		default:
			return false, fmt.Errorf("unexpected server reply: %q", verdict)
		}

		message, err = p.client.Receive()
		if err != nil {
			return false, err
		}
		if strings.HasPrefix(message, completionPrefix) {
			return p.finish(message)
		}
	}
}

// finish prints the completion summary and handles the end-of-session
// handshake when both themes are done
func (p *playSession) finish(summary string) (bool, error) {
	fmt.Println(summary)

	token, err := p.client.Receive()
	if err != nil {
		return false, err
	}

	switch token {
	case protocol.TokenCompletedQuiz:
		return false, nil
	case protocol.TokenBothQuizzesCompleted:
		fmt.Println("You have completed both quizzes. Well done!")
		if err := p.client.Send(protocol.TokenClientFinished); err != nil {
			return false, err
		}
		return true, nil
	case protocol.TokenServerTerminated:
		fmt.Println("Server is shutting down.")
		return true, nil
	default:
		return false, fmt.Errorf("unexpected server reply: %q", token)
	}
}

func (p *playSession) prompt(label string) (string, error) {
	fmt.Print(label)
	if !p.input.Scan() {
		if err := p.input.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("input closed")
	}
	return strings.TrimSpace(p.input.Text()), nil
}
