package translation

import (
	"context"
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/kapu/localization-connect-go/internal/domain"
	"github.com/kapu/localization-connect-go/internal/prompt"
	"github.com/kapu/localization-connect-go/internal/util"
	"github.com/kapu/localization-connect-go/pkg/errors"
)

// Requester sends one conversation upstream and returns the raw reply.
// Implementations report transport problems as *errors.TransportError.
type Requester interface {
	Complete(ctx context.Context, req domain.TranslationRequest) (string, error)
}

// AppContext is the app information woven into the system prompt.
type AppContext struct {
	Name        string
	Description string
	BrandVoice  string
}

// Job describes one field translation. CharLimit <= 0 disables the limit;
// MaxRetries counts attempts beyond the first.
type Job struct {
	Locale     string
	Field      domain.FieldKey
	SourceText string
	LocaleName string
	TextType   string
	CharLimit  int
	MaxRetries int
}

type Result struct {
	Translation    string
	Considerations string
	Attempts       []domain.TranslationAttempt
}

// AttemptState is the accumulator of the retry fold. Attempt is the 1-based
// number of the request about to be sent.
type AttemptState struct {
	Conversation domain.Conversation
	Attempt      int
}

// Step is the outcome of feeding one reply into Advance. Exactly one of
// Next, Result and Err is set.
type Step struct {
	Next   *AttemptState
	Result *Result
	Err    error
	Record domain.TranslationAttempt
}

// Corrector renders the corrective user turn for an over-limit reply.
type Corrector func(length, limit int) (string, error)

// Advance is the pure transition of the retry loop. The first reply that
// satisfies the limit wins; a broken wrapper fails immediately; an
// over-limit reply either extends the conversation or, once the budget is
// spent, fails with ConstraintExceededError.
func Advance(state AttemptState, raw string, job Job, correct Corrector) Step {
	record := domain.TranslationAttempt{
		Locale:         job.Locale,
		Field:          job.Field,
		AttemptNumber:  state.Attempt,
		RawModelOutput: raw,
	}

	parsed, err := ParseResponse(raw)
	if err != nil {
		return Step{Err: err, Record: record}
	}
	record.ExtractedText = parsed.Translation
	record.Considerations = parsed.Considerations

	check := Validate(parsed.Translation, job.CharLimit)
	record.PassedConstraint = check.OK
	if check.OK {
		return Step{
			Result: &Result{
				Translation:    parsed.Translation,
				Considerations: parsed.Considerations,
			},
			Record: record,
		}
	}

	if state.Attempt > job.MaxRetries {
		return Step{
			Err:    errors.NewConstraintExceededError(check.Length, job.CharLimit, state.Attempt),
			Record: record,
		}
	}

	correction, err := correct(check.Length, job.CharLimit)
	if err != nil {
		return Step{Err: err, Record: record}
	}

	next := AttemptState{
		Conversation: state.Conversation.Append(
			domain.Message{Role: domain.RoleAssistant, Content: raw},
			domain.Message{Role: domain.RoleUser, Content: correction},
		),
		Attempt: state.Attempt + 1,
	}
	return Step{Next: &next, Record: record}
}

// Translator runs the bounded retry loop against a Requester.
type Translator struct {
	requester Requester
	prompts   *prompt.PromptBuilder
	app       AppContext
	logger    *zap.Logger
}

func NewTranslator(requester Requester, prompts *prompt.PromptBuilder, app AppContext, logger *zap.Logger) *Translator {
	if prompts == nil {
		prompts = prompt.NewPromptBuilder()
	}
	return &Translator{
		requester: requester,
		prompts:   prompts,
		app:       app,
		logger:    logger,
	}
}

func (t *Translator) Translate(ctx context.Context, job Job) (*Result, error) {
	if job.MaxRetries < 0 {
		job.MaxRetries = 0
	}

	system, err := t.prompts.System(prompt.SystemVars{
		AppName:        t.app.Name,
		AppDescription: t.app.Description,
		BrandVoice:     t.app.BrandVoice,
		TargetLanguage: job.LocaleName,
	})
	if err != nil {
		return nil, err
	}

	user, err := t.prompts.User(prompt.UserVars{
		TextType:       job.TextType,
		TargetLanguage: job.LocaleName,
		SourceText:     job.SourceText,
		CharLimit:      job.CharLimit,
	})
	if err != nil {
		return nil, err
	}

	state := AttemptState{Conversation: domain.NewConversation(user), Attempt: 1}
	attempts := make([]domain.TranslationAttempt, 0, job.MaxRetries+1)

	for {
		raw, err := t.requester.Complete(ctx, domain.TranslationRequest{
			System:       system,
			Conversation: state.Conversation,
		})
		if err != nil {
			return nil, asTransportError(err)
		}

		step := Advance(state, raw, job, t.correct)
		attempts = append(attempts, step.Record)

		switch {
		case step.Err != nil:
			return nil, step.Err
		case step.Result != nil:
			step.Result.Attempts = attempts
			return step.Result, nil
		}

		t.logger.Warn("Translation over limit, retrying",
			zap.String("locale", job.Locale),
			zap.String("field", job.Field.String()),
			zap.Int("attempt", state.Attempt),
			zap.Int("length", util.CharCount(step.Record.ExtractedText)),
			zap.Int("limit", job.CharLimit),
		)
		state = *step.Next
	}
}

func (t *Translator) correct(length, limit int) (string, error) {
	return t.prompts.Correction(prompt.CorrectionVars{Length: length, Limit: limit})
}

func asTransportError(err error) error {
	var transportErr *errors.TransportError
	if stderrors.As(err, &transportErr) {
		return err
	}
	return errors.NewTransportError("translation request failed", "translator", "complete", 0, err)
}
