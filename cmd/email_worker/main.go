package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-posts-api/config"
	"github.com/oksasatya/go-posts-api/pkg/helpers"
	"github.com/oksasatya/go-posts-api/pkg/mailer"
)

const sendTimeout = 15 * time.Second

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env, cfg.LogLevel)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue, 16)
	if err != nil {
		logger.Fatalf("amqp: %v", err)
	}
	defer consumer.Close()

	msgs, err := consumer.Deliveries()
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender, cfg.MailgunAPIBase)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			ack(logger, msg, process(ctx, mg, msg.Body))
		}
	}()

	logger.Infof("email worker listening on queue=%s", cfg.RabbitMQEmailQueue)
	<-stop
	logger.Info("shutting down...")
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

// outcome tells the broker what to do with a message.
type outcome int

const (
	outcomeAck outcome = iota
	outcomeDrop
	outcomeRetry
)

type result struct {
	outcome outcome
	to      string
	err     error
}

// process decodes and delivers one job. Malformed jobs are dropped; send
// failures are retried.
func process(ctx context.Context, s mailer.Sender, body []byte) result {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return result{outcome: outcomeDrop, err: err}
	}
	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	err := mailer.Deliver(c, s, job)
	switch {
	case err == nil:
		return result{outcome: outcomeAck, to: job.To}
	case mailer.Permanent(err):
		return result{outcome: outcomeDrop, to: job.To, err: err}
	default:
		return result{outcome: outcomeRetry, to: job.To, err: err}
	}
}

func ack(logger logrus.FieldLogger, msg amqp.Delivery, r result) {
	fields := logrus.Fields{"to": r.to, "delivery_tag": msg.DeliveryTag}
	switch r.outcome {
	case outcomeAck:
		helpers.LogInfo(logger, "email sent", fields)
		_ = msg.Ack(false)
	case outcomeDrop:
		helpers.LogError(logger, "email job dropped", r.err, fields)
		_ = msg.Nack(false, false)
	default:
		helpers.LogError(logger, "email send failed; requeued", r.err, fields)
		_ = msg.Nack(false, true)
	}
}
