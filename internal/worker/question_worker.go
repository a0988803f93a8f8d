// Package worker consumes finance questions from the broker and
// publishes rendered answers back.
package worker

import (
	"context"
	"log/slog"

	"fpa/internal/amqp"
	"fpa/internal/services"
)

// Answerer answers one natural-language finance question.
type Answerer interface {
	Answer(ctx context.Context, question string) (services.Answer, error)
}

// Publisher sends an answer message back to the asker.
type Publisher interface {
	PublishAnswer(ctx context.Context, msg *amqp.AnswerMessage) error
}

type QuestionWorker struct {
	answerer  Answerer
	publisher Publisher
}

func NewQuestionWorker(answerer Answerer, publisher Publisher) *QuestionWorker {
	return &QuestionWorker{answerer: answerer, publisher: publisher}
}

// HandleQuestion answers one question and publishes the result. A failed
// answer still produces a reply carrying the error, so the asker is
// never left waiting; only publish failures propagate.
func (w *QuestionWorker) HandleQuestion(ctx context.Context, msg *amqp.QuestionMessage) error {
	slog.InfoContext(ctx, "Handling question", "id", msg.ID)

	answer, err := w.answerer.Answer(ctx, msg.Question)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to answer question", "id", msg.ID, "error", err)
		return w.publisher.PublishAnswer(ctx, amqp.NewAnswerError(msg.ID, err))
	}

	return w.publisher.PublishAnswer(ctx, amqp.NewAnswerMessage(msg.ID, answer))
}
