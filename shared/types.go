package shared

type ServerConfig struct {
	Wanderi WanderiConfig `mapstructure:"wanderi" validate:"required"`
	Mailer  MailerConfig  `mapstructure:"mailer" validate:"required"`
}

type WanderiConfig struct {
	Listener ListenerConfig `mapstructure:"listener" validate:"required"`
}

type ListenerConfig struct {
	Port int `mapstructure:"port" validate:"required"`
}

// MailerConfig holds the transport region and addressing for consultation
// notifications. FromEmail must be a verified SES identity;
// ConsultationEmail is the operator inbox that receives every request.
type MailerConfig struct {
	Region            string `mapstructure:"region" validate:"required"`
	FromEmail         string `mapstructure:"fromEmail" validate:"required,email"`
	ConsultationEmail string `mapstructure:"consultationEmail" validate:"required,email"`
}
