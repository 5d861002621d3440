package app

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/Alijeyrad/simorq_mailer/internal/service/contact"
	"github.com/Alijeyrad/simorq_mailer/pkg/email"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideContactService,
	),
)

func ProvideContactService(client *email.Client) contact.Service {
	return contact.New(client, slog.Default().With("component", "contact"))
}
