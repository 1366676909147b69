package email

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Domenick1991/airbooking-desk/internal/kafka"
)

// Sender writes booking confirmation mails. There is no SMTP integration yet;
// mails are rendered to the configured writer.
type Sender struct {
	out io.Writer
}

func NewSender() *Sender {
	return &Sender{out: os.Stdout}
}

func NewSenderTo(out io.Writer) *Sender {
	return &Sender{out: out}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if event.PassengerEmail == "" {
		return errors.New("booking event has no passenger email")
	}
	_, err := fmt.Fprintf(s.out, "send email to %s about %s: booking %s on flight %s (%s) %s\n",
		event.PassengerEmail, event.Type, event.BookingID, event.FlightIata, event.AirlineName, event.FlightDate)
	return err
}
