package frontend

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/letsssgooo/quizServer/internal/auth"
	"github.com/letsssgooo/quizServer/internal/client"
)

var (
	errQuit     = errors.New("quit")
	errLogout   = errors.New("logout")
	errFinished = errors.New("test finished")
)

// App — терминальный клиент квизов поверх REST API.
type App struct {
	api        client.Client
	out        io.Writer
	lines      <-chan string
	durationOf func(minutes int) time.Duration
	tick       time.Duration
	now        func() time.Time
}

// New создаёт приложение, которое читает команды из in и пишет экран в out.
func New(api client.Client, in io.Reader, out io.Writer) *App {
	return &App{
		api:   api,
		out:   out,
		lines: readLines(in),
		durationOf: func(minutes int) time.Duration {
			return time.Duration(minutes) * time.Minute
		},
		tick: time.Second,
		now:  time.Now,
	}
}

func readLines(in io.Reader) <-chan string {
	lines := make(chan string)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	return lines
}

// Run показывает экран входа, затем личный кабинет.
// Возвращается, когда пользователь выходит или ввод закончился.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, title(msgWelcome))

	for {
		user, err := a.authPage(ctx)
		if err != nil {
			return finish(err)
		}

		err = a.dashboard(ctx, user)
		switch {
		case errors.Is(err, errLogout):
			a.api.Logout()
		case client.IsUnauthorized(err):
			a.api.Logout()
			fmt.Fprintln(a.out, warning(msgSessionExpired))
		default:
			return finish(err)
		}
	}
}

func finish(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, errQuit) {
		return nil
	}
	return err
}

func (a *App) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-a.lines:
		if !ok {
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

func (a *App) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprintf(a.out, "%s: ", label)
	return a.readLine(ctx)
}

// fail печатает сообщение об ошибке так, как его вернул сервер.
func (a *App) fail(err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintln(a.out, bad(apiErr.Message))
		return
	}
	fmt.Fprintln(a.out, bad(err.Error()))
}

// recoverable сообщает, что ошибку можно показать и остаться на текущем экране.
func recoverable(err error) bool {
	status := client.StatusOf(err)
	return status != 0 && status != http.StatusUnauthorized
}

// pick разбирает номер пункта списка длины n.
func pick(input string, n int) (int, bool) {
	i, err := strconv.Atoi(input)
	if err != nil || i < 1 || i > n {
		return -1, false
	}
	return i - 1, true
}

func (a *App) authPage(ctx context.Context) (*auth.PublicUser, error) {
	for {
		fmt.Fprintln(a.out, muted(msgAuthMenu))

		cmd, err := a.readLine(ctx)
		if err != nil {
			return nil, err
		}

		var session *auth.Session
		switch strings.ToLower(cmd) {
		case "l":
			session, err = a.login(ctx)
		case "r":
			session, err = a.register(ctx)
		case "q":
			return nil, errQuit
		default:
			fmt.Fprintln(a.out, msgUnknownCommand)
			continue
		}

		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil, err
			}
			a.fail(err)
			continue
		}

		return &session.User, nil
	}
}

func (a *App) login(ctx context.Context) (*auth.Session, error) {
	email, err := a.prompt(ctx, "Email")
	if err != nil {
		return nil, err
	}

	password, err := a.prompt(ctx, "Password")
	if err != nil {
		return nil, err
	}

	return a.api.Login(ctx, email, password)
}

func (a *App) register(ctx context.Context) (*auth.Session, error) {
	name, err := a.prompt(ctx, "Name")
	if err != nil {
		return nil, err
	}

	email, err := a.prompt(ctx, "Email")
	if err != nil {
		return nil, err
	}

	password, err := a.prompt(ctx, "Password")
	if err != nil {
		return nil, err
	}

	return a.api.Register(ctx, name, email, password)
}

func (a *App) dashboard(ctx context.Context, user *auth.PublicUser) error {
	for {
		results, err := a.api.Results(ctx)
		if err != nil {
			return err
		}

		renderDashboard(a.out, user.Name, results)

		cmd, err := a.readLine(ctx)
		if err != nil {
			return err
		}

		fields := strings.Fields(strings.ToLower(cmd))
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "c":
			err = a.browse(ctx)
		case "v":
			if len(fields) < 2 {
				fmt.Fprintln(a.out, msgUnknownCommand)
				continue
			}
			n, ok := pick(fields[1], len(results))
			if !ok {
				fmt.Fprintln(a.out, msgUnknownCommand)
				continue
			}
			if results[n].Test == nil {
				fmt.Fprintln(a.out, muted("This test is no longer available."))
				continue
			}
			err = a.showResult(ctx, results[n].Test.ID)
		case "o":
			return errLogout
		case "q":
			return errQuit
		default:
			fmt.Fprintln(a.out, msgUnknownCommand)
		}

		if err != nil && !errors.Is(err, errFinished) {
			return err
		}
	}
}

func (a *App) browse(ctx context.Context) error {
	for {
		categories, err := a.api.Categories(ctx)
		if err != nil {
			return err
		}

		renderCategories(a.out, categories)

		cmd, err := a.readLine(ctx)
		if err != nil {
			return err
		}
		if strings.EqualFold(cmd, "b") {
			return nil
		}

		n, ok := pick(cmd, len(categories))
		if !ok {
			fmt.Fprintln(a.out, msgUnknownCommand)
			continue
		}

		if err := a.categoryTests(ctx, categories[n].ID); err != nil {
			return err
		}
	}
}

func (a *App) categoryTests(ctx context.Context, categoryID string) error {
	for {
		ct, err := a.api.CategoryTests(ctx, categoryID)
		if err != nil {
			if recoverable(err) {
				a.fail(err)
				return nil
			}
			return err
		}

		renderTests(a.out, ct)

		cmd, err := a.readLine(ctx)
		if err != nil {
			return err
		}
		if strings.EqualFold(cmd, "b") {
			return nil
		}

		n, ok := pick(cmd, len(ct.Tests))
		if !ok {
			fmt.Fprintln(a.out, msgUnknownCommand)
			continue
		}

		if err := a.instructions(ctx, ct.Tests[n].ID); err != nil {
			return err
		}
	}
}

func (a *App) instructions(ctx context.Context, testID string) error {
	details, err := a.api.Test(ctx, testID)
	if err != nil {
		if recoverable(err) {
			a.fail(err)
			return nil
		}
		return err
	}

	for {
		renderInstructions(a.out, details)

		cmd, err := a.readLine(ctx)
		if err != nil {
			return err
		}

		switch strings.ToLower(cmd) {
		case "b":
			return nil
		case "s":
			return a.runTest(ctx, testID)
		default:
			fmt.Fprintln(a.out, msgUnknownCommand)
		}
	}
}

type submitOutcome struct {
	posted bool
	err    error
}

// runTest проводит пользователя по вопросам с обратным отсчётом.
// Когда время выходит, ответы отправляются автоматически.
func (a *App) runTest(ctx context.Context, testID string) error {
	tq, err := a.api.Questions(ctx, testID)
	if err != nil {
		if recoverable(err) {
			a.fail(err)
			return nil
		}
		return err
	}
	if len(tq.Questions) == 0 {
		fmt.Fprintln(a.out, warning(msgNoQuestions))
		return nil
	}

	testCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := NewSession(testID, tq)
	latch := &submitLatch{}
	send := func() (string, error) {
		return a.api.Submit(testCtx, testID, s.Answers())
	}

	deadline := a.now().Add(a.durationOf(tq.Duration))
	secondsLeft := func() int {
		return int(deadline.Sub(a.now()).Round(time.Second) / time.Second)
	}

	expired := make(chan submitOutcome, 1)
	timer := time.AfterFunc(deadline.Sub(a.now()), func() {
		_, posted, err := latch.Submit(send)
		expired <- submitOutcome{posted: posted, err: err}
	})
	defer timer.Stop()

	ticker := time.NewTicker(a.tick)
	defer ticker.Stop()

	fmt.Fprintln(a.out, muted(msgTestHelp))
	renderQuestion(a.out, s, secondsLeft())

	lines := a.lines
	confirming := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case out := <-expired:
			if out.err != nil {
				a.fail(out.err)
				fmt.Fprintln(a.out, bad(msgSubmitFailed))
				if lines == nil {
					// повторить отправку уже некому
					return errFinished
				}
				continue
			}
			if out.posted {
				fmt.Fprintln(a.out, warning(msgTimeUp))
			}
			return a.afterSubmit(ctx, testID)

		case <-ticker.C:
			left := secondsLeft()
			if left > 0 && (left%60 == 0 || left <= 10) {
				fmt.Fprintf(a.out, "Time left: %s\n", warning(FormatTime(left)))
			}

		case line, ok := <-lines:
			if !ok {
				// ввод закончился, ответы уйдут по таймеру
				lines = nil
				continue
			}

			cmd := strings.ToLower(strings.TrimSpace(line))

			if confirming {
				confirming = false
				if cmd != "y" && cmd != "yes" {
					renderQuestion(a.out, s, secondsLeft())
					continue
				}

				_, posted, err := latch.Submit(send)
				if err != nil {
					a.fail(err)
					fmt.Fprintln(a.out, bad(msgSubmitFailed))
					continue
				}
				if posted {
					fmt.Fprintln(a.out, good(msgSubmitted))
				} else {
					fmt.Fprintln(a.out, muted(msgAlreadySubmitted))
				}
				return a.afterSubmit(ctx, testID)
			}

			switch cmd {
			case "":
				continue
			case "n":
				s.Next()
			case "p":
				s.Prev()
			case "s":
				confirming = true
				fmt.Fprintf(a.out, "Answered %d of %d questions.\n", s.Answered(), s.Len())
				fmt.Fprintln(a.out, warning(msgConfirmSubmit))
				continue
			case "q":
				fmt.Fprintln(a.out, muted(msgAbandoned))
				return errFinished
			default:
				option, ok := parseOption(cmd)
				if !ok {
					fmt.Fprintln(a.out, msgUnknownCommand)
					continue
				}
				if err := s.Select(option); err != nil {
					fmt.Fprintln(a.out, bad(err.Error()))
					continue
				}
			}

			renderQuestion(a.out, s, secondsLeft())
		}
	}
}

func (a *App) afterSubmit(ctx context.Context, testID string) error {
	if err := a.showResult(ctx, testID); err != nil {
		return err
	}
	return errFinished
}

// showResult показывает разбор последней попытки теста и ждёт Enter.
func (a *App) showResult(ctx context.Context, testID string) error {
	result, err := a.api.Result(ctx, testID)
	if err != nil {
		if recoverable(err) {
			a.fail(err)
			return nil
		}
		return err
	}

	renderReview(a.out, result)
	fmt.Fprintln(a.out, muted(msgPressEnter))

	_, err = a.readLine(ctx)
	return err
}
