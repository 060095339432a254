package mail

type WelcomeEmailData struct {
	BusinessName string
	DashboardURL string
}

type QuotaEmailData struct {
	BusinessName string
	Message      string
	Used         int
	Limit        int
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
