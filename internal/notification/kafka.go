package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cliniccore/clinic-appointment-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

const (
	confirmationTopic = "appointment_confirmations"
	reminderTopic     = "appointment_reminders"
)

// KafkaDispatcher publishes notification events for a downstream
// delivery service to fan out to email/SMS.
type KafkaDispatcher struct {
	confirmations *kafka.Writer
	reminders     *kafka.Writer
}

func NewKafkaDispatcher(broker string) *KafkaDispatcher {
	newWriter := func(topic string) *kafka.Writer {
		return kafka.NewWriter(kafka.WriterConfig{
			Brokers:      []string{broker},
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: int(kafka.RequireOne),
		})
	}
	return &KafkaDispatcher{
		confirmations: newWriter(confirmationTopic),
		reminders:     newWriter(reminderTopic),
	}
}

func (d *KafkaDispatcher) NotifyConfirmation(event domain.ConfirmationEvent) error {
	return d.produce(d.confirmations, event)
}

func (d *KafkaDispatcher) NotifyReminder(event domain.ConfirmationEvent) error {
	return d.produce(d.reminders, event)
}

func (d *KafkaDispatcher) produce(writer *kafka.Writer, event domain.ConfirmationEvent) error {
	message, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// AppointmentId as the key keeps events for one appointment on one
	// partition.
	err = writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(event.AppointmentId)),
		Value: message,
	})
	if err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}
	return nil
}

func (d *KafkaDispatcher) Close() error {
	if err := d.confirmations.Close(); err != nil {
		return err
	}
	return d.reminders.Close()
}
