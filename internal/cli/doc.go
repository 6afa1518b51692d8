// Package cli реализует инструмент командной строки routecost.
//
// # Обзор
//
// CLI — клиентская утилита для routecost API. Работает через HTTP.
// Из внутренних пакетов импортирует только domain (типы записей)
// и catalog (формат YAML-файла шагов для step apply).
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для API. Инкапсулирует HTTP-запросы,
// разбор конвертов (data, data+total, error) и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:8080")
//	routing, err := client.GetRouting()
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: routecost routing show --json | jq .result
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - step: list, show, apply, delete
//   - worker, machine: list, create, delete
//   - material: list, set, delete
//   - product: list, show, create, delete
//   - routing: show, add, remove, params, reset, associate
//
// Каждая группа создаётся через фабричную функцию (NewStepCmd и т.д.),
// принимающую clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
package cli
