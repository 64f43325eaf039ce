package otp

import (
	"context"

	"github.com/kuryentech/gardian-admin/internal/logging"
)

// Sender delivers a verification code to a phone number. SMS delivery is an
// external concern; implementations wrap whatever gateway is in use.
type Sender interface {
	Send(ctx context.Context, phone, code string) error
}

// LogSender writes codes to the log instead of sending SMS. Default for
// development and tests.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(logger logging.Logger) *LogSender {
	return &LogSender{logger: logger.With("module", "sms")}
}

func (s *LogSender) Send(ctx context.Context, phone, code string) error {
	s.logger.Info(ctx, "verification code issued", "phone", MaskPhone(phone), "code", code)
	return nil
}

// MaskPhone hides all but the last two digits of a phone number.
func MaskPhone(phone string) string {
	if len(phone) <= 2 {
		return phone
	}
	masked := make([]byte, len(phone))
	for i := range phone {
		if i >= len(phone)-2 {
			masked[i] = phone[i]
		} else {
			masked[i] = '*'
		}
	}
	return string(masked)
}
