package health

type Input struct{}

type Output struct {
	Body Response
}

type Response struct {
	Status  string `json:"status" example:"OK" doc:"Состояние агента"`
	Uptime  string `json:"uptime" example:"1h2m3s" doc:"Время работы агента"`
	Version string `json:"version" example:"1.0.0"`
}
