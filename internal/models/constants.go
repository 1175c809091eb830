package models

const (
	// DefaultPageSize размер страницы по умолчанию для списков
	DefaultPageSize = 20

	// RateLimitRequests количество запросов в окне на одного пользователя
	RateLimitRequests = 30

	// RateLimitWindow окно ограничения частоты запросов
	RateLimitWindow = 60 // 1 минута в секундах

	// WorkerQueueSize размер очереди воркера
	WorkerQueueSize = 1000

	// ExportPageSize потолок выгрузки бронирований в файл
	ExportPageSize = 10000
)
