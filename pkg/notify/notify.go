package notify

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/wneessen/go-mail"
	"github.com/wneessen/go-mail-middleware/dkim"

	"github.com/outofforest/bedrock/pkg/install"
	"github.com/outofforest/bedrock/pkg/report"
	"github.com/outofforest/bedrock/pkg/settings"
)

// Send emails the installation outcome to the operations address. Used on
// OEM lines where nobody watches individual machines.
func Send(ctx context.Context, config settings.Email, rep report.Report) error {
	if config.Server == "" || config.To == "" {
		return nil
	}

	msg := mail.NewMsg(mail.WithNoDefaultUserAgent())
	msg.SetMessageIDWithValue(uuid.New().String() + "@" + config.HELO)

	if err := msg.From(config.From); err != nil {
		return errors.WithStack(err)
	}
	if err := msg.To(config.To); err != nil {
		return errors.WithStack(err)
	}
	msg.Subject(subject(rep))
	msg.SetBodyString(mail.TypeTextPlain, body(rep))

	if config.DKIMKey != "" {
		signed, err := sign(msg, config)
		if err != nil {
			return err
		}
		msg = signed
	}

	client, err := mail.NewClient(config.Server,
		mail.WithPort(25),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithHELO(config.HELO),
	)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.Wrap(client.DialAndSendWithContext(ctx, msg), "sending notification failed")
}

func sign(msg *mail.Msg, config settings.Email) (*mail.Msg, error) {
	keyPEM, err := os.ReadFile(config.DKIMKey)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	dkimConfig, err := dkim.NewConfig(config.DKIMDomain, "bedrock")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	middleware, err := dkim.NewFromRSAKey(keyPEM, dkimConfig)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return middleware.Handle(msg), nil
}

func subject(rep report.Report) string {
	if rep.Code == install.CodeSuccess {
		return fmt.Sprintf("[bedrock] %s installed", rep.Machine)
	}
	return fmt.Sprintf("[bedrock] %s FAILED", rep.Machine)
}

func body(rep report.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Machine: %s\n", rep.Machine)
	fmt.Fprintf(&sb, "Started: %s\n", rep.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "Finished: %s\n", rep.FinishedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "Status: %d\n", rep.Code)
	if rep.Error != "" {
		fmt.Fprintf(&sb, "Error: %s\n", rep.Error)
	}
	sb.WriteString("\nSteps:\n")
	for _, s := range rep.Steps {
		fmt.Fprintf(&sb, "  %d. %s (%s)\n", s.Ordinal, s.Name, s.Duration)
	}
	return sb.String()
}
