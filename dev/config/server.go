package config

const SERVER_YML = `
wanderi:
  listener:
    port: 3000

mailer:
  region: "us-east-1"
  fromEmail: "consultations@wanderi-insurance.com"
  consultationEmail: "brian@wanderi-insurance.com"
`
