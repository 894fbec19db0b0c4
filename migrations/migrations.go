package migrations

import "embed"

// FS содержит SQL-миграции для postgres-бэкенда
//
//go:embed *.up.sql
var FS embed.FS

const TasksUp = "001_create_tasks.up.sql"
