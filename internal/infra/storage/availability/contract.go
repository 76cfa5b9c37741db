package availability

import "github.com/kameqazi1/Manaakhah-sub002/pkg/dbmetrics"

// Переиспользуем интерфейс из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
