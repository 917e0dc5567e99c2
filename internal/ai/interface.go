// README: Answer model abstraction; keeps the pipeline independent of one vendor.
package ai

import (
	"context"
)

// AnswerProvider turns a question plus its evidence context into a natural
// language answer. Implementations must not invent numbers: everything the
// model needs is in the evidence string.
type AnswerProvider interface {
	GenerateAnswer(ctx context.Context, question, evidence string) (string, error)
}
