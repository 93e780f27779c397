package queue

import (
    "context"
    "encoding/json"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/isuci/isuci-backend/internal/logger"
)

// Publisher sends UserRegisteredEvent messages to RabbitMQ.  It dials per
// publish; registrations are rare enough that a pooled channel is not
// worth the reconnect bookkeeping.
type Publisher struct {
    URL string
}

func NewPublisher(url string) *Publisher { return &Publisher{URL: url} }

// UserRegistered publishes ev to the user.registered queue.  Errors are
// logged and returned so the caller can choose to ignore them.  Messages
// are marked as persistent.
func (p *Publisher) UserRegistered(ctx context.Context, ev UserRegisteredEvent) error {
    log := logger.FromContext(ctx)
    conn, err := amqp.Dial(p.URL)
    if err != nil {
        log.Warn("rabbitmq: dial failed", "err", err)
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Warn("rabbitmq: channel open failed", "err", err)
        return err
    }
    defer func() { _ = ch.Close() }()

    if err := declare(ch); err != nil {
        log.Warn("rabbitmq: queue declare failed", "err", err)
        return err
    }

    body, err := json.Marshal(ev)
    if err != nil {
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        MessageId:    ev.EventID,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }

    if err := ch.PublishWithContext(ctx,
        "",              // default exchange
        RegisteredQueue, // routing key = queue name
        false,           // mandatory
        false,           // immediate
        pub,
    ); err != nil {
        log.Warn("rabbitmq: publish failed", "err", err)
        return err
    }
    return nil
}

// declare makes sure the queue exists (idempotent).  Durable so messages
// survive broker restarts.
func declare(ch *amqp.Channel) error {
    _, err := ch.QueueDeclare(
        RegisteredQueue, // name
        true,            // durable
        false,           // autoDelete
        false,           // exclusive
        false,           // noWait
        nil,             // args
    )
    return err
}
