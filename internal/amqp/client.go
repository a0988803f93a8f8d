// Package amqp carries questions to the worker and answers back over a
// durable direct exchange with one queue per direction.
package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const maxDialAttempts = 5

type Client struct {
	conn          *amqp091.Connection
	channel       *amqp091.Channel
	exchangeName  string
	questionQueue string
	answerQueue   string
}

// NewClient connects to the broker, retrying transient connection errors
// with exponential backoff, and declares the exchange and both queues.
func NewClient(url, exchangeName, questionQueue, answerQueue string) (*Client, error) {
	var conn *amqp091.Connection
	var err error
	for attempt := 0; attempt < maxDialAttempts; attempt++ {
		conn, err = amqp091.Dial(url)
		if err == nil {
			break
		}
		if !isConnectionError(err) || attempt == maxDialAttempts-1 {
			return nil, fmt.Errorf("dial AMQP: %w", err)
		}
		wait := exponentialBackoff(attempt)
		slog.Warn("AMQP dial failed, retrying", "attempt", attempt+1, "wait", wait, "error", err)
		time.Sleep(wait)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:          conn,
		channel:       channel,
		exchangeName:  exchangeName,
		questionQueue: questionQueue,
		answerQueue:   answerQueue,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queues: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	for _, queue := range []string{c.questionQueue, c.answerQueue} {
		_, err = c.channel.QueueDeclare(
			queue, // name
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}

		// Routing key matches the queue name on a direct exchange.
		if err := c.channel.QueueBind(queue, queue, c.exchangeName, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", queue, err)
		}
	}

	return nil
}

// PublishQuestion enqueues a question for the worker.
func (c *Client) PublishQuestion(ctx context.Context, msg *QuestionMessage) error {
	return c.publish(ctx, c.questionQueue, msg)
}

// PublishAnswer enqueues an answer for the asker.
func (c *Client) PublishAnswer(ctx context.Context, msg *AnswerMessage) error {
	return c.publish(ctx, c.answerQueue, msg)
}

func (c *Client) publish(ctx context.Context, routingKey string, msg interface{ ToJSON() ([]byte, error) }) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", routingKey, err)
	}

	slog.DebugContext(ctx, "Published message",
		"exchange", c.exchangeName,
		"routing_key", routingKey,
		"bytes", len(body))
	return nil
}

// ConsumeQuestions delivers incoming questions to the handler with manual
// acks. A handler error nacks the message without requeue; a closed
// delivery channel ends consumption with an error.
func (c *Client) ConsumeQuestions(ctx context.Context, handler func(context.Context, *QuestionMessage) error) error {
	msgs, err := c.channel.Consume(
		c.questionQueue, // queue
		"",              // consumer
		false,           // auto-ack
		false,           // exclusive
		false,           // no-local
		false,           // no-wait
		nil,             // args
	)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.questionQueue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("question channel closed")
			}

			msg, err := QuestionMessageFromJSON(d.Body)
			if err != nil {
				slog.ErrorContext(ctx, "Dropping unparseable question message", "error", err)
				d.Nack(false, false)
				continue
			}

			if err := handler(ctx, msg); err != nil {
				slog.ErrorContext(ctx, "Question handler failed", "id", msg.ID, "error", err)
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}
}

func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close amqp client: %v", errs)
	}
	return nil
}

// exponentialBackoff returns the wait before the next dial attempt,
// doubling from one second and capped at 30 seconds.
func exponentialBackoff(attempt int) time.Duration {
	wait := time.Second << uint(attempt)
	if wait > 30*time.Second {
		wait = 30 * time.Second
	}
	return wait
}

// isConnectionError reports whether an error looks like a transient
// broker connectivity failure worth retrying.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, hint := range []string{"connection refused", "connection closed", "connection reset", "eof", "timeout", "no route to host"} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}
