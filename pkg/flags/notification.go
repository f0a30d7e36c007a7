package flags

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/openshift/ci-hud/pkg/notify"
)

// NotificationFlags configure where breakage notifications are delivered. The log is
// always a channel.
type NotificationFlags struct {
	SlackToken   string
	SlackChannel string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseSSL   bool
	EmailFrom    string
	EmailTo      []string
}

func NewNotificationFlags() *NotificationFlags {
	return &NotificationFlags{
		SlackToken:   os.Getenv("SLACK_TOKEN"),
		SMTPPort:     587,
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
	}
}

func (f *NotificationFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.SlackChannel, "slack-channel", f.SlackChannel, "Slack channel to post breakage notifications to (requires SLACK_TOKEN)")

	fs.StringVar(&f.SMTPHost, "smtp-host", f.SMTPHost, "SMTP server for email notifications")
	fs.IntVar(&f.SMTPPort, "smtp-port", f.SMTPPort, "SMTP port")
	fs.StringVar(&f.SMTPUsername, "smtp-username", f.SMTPUsername, "SMTP username (password from SMTP_PASSWORD)")
	fs.BoolVar(&f.SMTPUseSSL, "smtp-ssl", f.SMTPUseSSL, "Use implicit TLS instead of STARTTLS")
	fs.StringVar(&f.EmailFrom, "email-from", f.EmailFrom, "Sender address of email notifications")
	fs.StringSliceVar(&f.EmailTo, "email-to", f.EmailTo, "Recipients of email notifications")
}

func (f *NotificationFlags) Validate() error {
	if f.SlackChannel != "" && f.SlackToken == "" {
		return errors.New("--slack-channel requires SLACK_TOKEN")
	}
	if f.SMTPHost != "" && (f.EmailFrom == "" || len(f.EmailTo) == 0) {
		return errors.New("--smtp-host requires --email-from and --email-to")
	}
	return nil
}

func (f *NotificationFlags) GetNotifier() notify.Notifier {
	notifiers := notify.Multi{notify.LogNotifier{}}
	if f.SlackChannel != "" {
		notifiers = append(notifiers, notify.NewSlackNotifier(f.SlackToken, f.SlackChannel))
	}
	if f.SMTPHost != "" {
		notifiers = append(notifiers, notify.NewEmailNotifier(notify.EmailConfig{
			SMTPHost: f.SMTPHost,
			SMTPPort: f.SMTPPort,
			Username: f.SMTPUsername,
			Password: f.SMTPPassword,
			UseSSL:   f.SMTPUseSSL,
			From:     f.EmailFrom,
			To:       f.EmailTo,
		}))
	}
	return notifiers
}
