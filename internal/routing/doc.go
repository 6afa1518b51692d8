// Package routing — сервисный слой расчёта себестоимости по маршруту.
//
// Service отвечает за:
//   - Текущую сессию: последовательность шагов и параметры запуска (не сохраняется)
//   - Расчёт маршрута по снимку каталога и реестров
//   - Связывание стоимости труда с изделием и публикацию события
//   - CRUD каталога, сотрудников, оборудования, материалов и изделий
//     с проверкой ссылочной целостности
//
// Вычисления выполняет пакет engine; routing только загружает данные,
// передаёт их в engine и сохраняет результат.
package routing
