// Package engine содержит движок расчёта стоимости производственного маршрута.
//
// Включает:
//   - snapshot.go   — неизменяемые снимки каталога шагов и реестра сотрудников/машин
//   - resolver.go   — выбор пары (наладка, операция) по размеру и типу крепления
//   - builder.go    — последовательность шагов маршрута и автодобавление зависимых шагов
//   - aggregator.go — итоговое время и разбивка стоимости труда по сотрудникам
//   - merger.go     — запись рассчитанной стоимости труда в себестоимость изделия
//   - integrity.go  — проверка ссылок перед удалением сотрудника или машины
//
// Все операции — чистые вычисления над данными в памяти. Каталог и реестр
// передаются явно в каждую точку входа.
package engine
