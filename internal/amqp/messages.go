package amqp

import (
	"encoding/json"
	"time"

	"fpa/internal/services"
)

// QuestionMessage asks the worker to answer one finance question. ID is
// caller-chosen and echoed back on the answer so replies can be matched.
type QuestionMessage struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Timestamp time.Time `json:"timestamp"`
}

func NewQuestionMessage(id, question string) *QuestionMessage {
	return &QuestionMessage{
		ID:        id,
		Question:  question,
		Timestamp: time.Now(),
	}
}

func (m *QuestionMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func QuestionMessageFromJSON(data []byte) (*QuestionMessage, error) {
	var msg QuestionMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// AnswerMessage carries the rendered answer back to the asker. Error is
// set instead of Answer when the question could not be answered.
type AnswerMessage struct {
	ID        string          `json:"id"`
	Answer    services.Answer `json:"answer"`
	Error     string          `json:"error,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewAnswerMessage(id string, answer services.Answer) *AnswerMessage {
	return &AnswerMessage{
		ID:        id,
		Answer:    answer,
		Timestamp: time.Now(),
	}
}

func NewAnswerError(id string, err error) *AnswerMessage {
	return &AnswerMessage{
		ID:        id,
		Error:     err.Error(),
		Timestamp: time.Now(),
	}
}

func (m *AnswerMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func AnswerMessageFromJSON(data []byte) (*AnswerMessage, error) {
	var msg AnswerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
