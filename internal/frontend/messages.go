package frontend

const msgWelcome = `Quiz App

Log in to take timed tests and review your results.`

const msgAuthMenu = `[l] log in   [r] register   [q] quit`

const msgDashboardMenu = `[c] browse categories   [v N] review result N   [o] log out   [q] quit`

const msgNoResults = `You haven't taken any tests yet.`

const msgListMenu = `Enter a number to open it, [b] to go back.`

const msgInstructionsMenu = `[s] start test   [b] back`

const msgTestHelp = `Answer with a letter (A, B, ...) or a number. [n] next   [p] previous   [s] submit   [q] abandon`

const msgConfirmSubmit = `Are you sure you want to submit your test? You won't be able to change your answers after submission. [y/N]`

const msgTimeUp = `Time is up! Your answers have been submitted.`

const msgSubmitted = `Test submitted successfully.`

const msgAlreadySubmitted = `This test has already been submitted.`

const msgSubmitFailed = `Failed to submit test, press [s] to try again.`

const msgNoQuestions = `No questions available for this test.`

const msgAbandoned = `Test abandoned, your answers were not submitted.`

const msgNotAnswered = `You didn't answer this question`

const msgSessionExpired = `Your session has expired, please log in again.`

const msgPressEnter = `Press Enter to return to the dashboard.`

const msgUnknownCommand = `Unknown command.`
