package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/shaiso/routecost/internal/domain"
)

// --- Request/response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// RoutingSession — последовательность шагов и параметры запуска.
type RoutingSession struct {
	Entries    []domain.RoutingEntry `json:"entries"`
	Parameters domain.RunParameters  `json:"parameters"`
}

// RoutingResponse — маршрут и его расчёт.
type RoutingResponse struct {
	Session RoutingSession        `json:"session"`
	Result  *domain.RoutingResult `json:"result"`
}

// AddStepResponse — записи, добавленные в маршрут.
type AddStepResponse struct {
	Added   []domain.RoutingEntry `json:"added"`
	Session RoutingSession        `json:"session"`
}

// AssociateResponse — изделие после связывания.
type AssociateResponse struct {
	Product *domain.Product       `json:"product"`
	Result  *domain.RoutingResult `json:"result,omitempty"`
}

// CreateProductRequest — создание изделия.
type CreateProductRequest struct {
	Name      string                 `json:"name"`
	SKU       string                 `json:"sku"`
	SalePrice float64                `json:"sale_price"`
	Materials []domain.MaterialUsage `json:"materials"`
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для routecost API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Steps ---

// ListSteps возвращает каталог шагов.
func (c *Client) ListSteps() ([]domain.StepDefinition, error) {
	var steps []domain.StepDefinition
	err := c.list("/api/v1/steps", &steps)
	return steps, err
}

// GetStep возвращает шаг по ID.
func (c *Client) GetStep(id string) (*domain.StepDefinition, error) {
	var step domain.StepDefinition
	err := c.get("/api/v1/steps/"+id, &step)
	return &step, err
}

// CreateStep создаёт шаг в каталоге.
func (c *Client) CreateStep(step domain.StepDefinition) (*domain.StepDefinition, error) {
	var created domain.StepDefinition
	err := c.post("/api/v1/steps", step, &created)
	return &created, err
}

// UpdateStep заменяет определение шага.
func (c *Client) UpdateStep(step domain.StepDefinition) (*domain.StepDefinition, error) {
	var updated domain.StepDefinition
	err := c.put("/api/v1/steps/"+step.ID, step, &updated)
	return &updated, err
}

// DeleteStep удаляет шаг из каталога.
func (c *Client) DeleteStep(id string) error {
	return c.delete("/api/v1/steps/" + id)
}

// --- Workers ---

// ListWorkers возвращает всех сотрудников.
func (c *Client) ListWorkers() ([]domain.Worker, error) {
	var workers []domain.Worker
	err := c.list("/api/v1/workers", &workers)
	return workers, err
}

// CreateWorker создаёт сотрудника.
func (c *Client) CreateWorker(name string, monthlySalary float64) (*domain.Worker, error) {
	body := map[string]any{"name": name, "monthly_salary": monthlySalary}
	var worker domain.Worker
	err := c.post("/api/v1/workers", body, &worker)
	return &worker, err
}

// DeleteWorker удаляет сотрудника.
func (c *Client) DeleteWorker(id string) error {
	return c.delete("/api/v1/workers/" + id)
}

// --- Machines ---

// ListMachines возвращает все машины.
func (c *Client) ListMachines() ([]domain.Machine, error) {
	var machines []domain.Machine
	err := c.list("/api/v1/machines", &machines)
	return machines, err
}

// CreateMachine создаёт машину.
func (c *Client) CreateMachine(name, sector, workerID string) (*domain.Machine, error) {
	body := map[string]string{"name": name, "sector": sector, "assigned_worker_id": workerID}
	var machine domain.Machine
	err := c.post("/api/v1/machines", body, &machine)
	return &machine, err
}

// DeleteMachine удаляет машину.
func (c *Client) DeleteMachine(id string) error {
	return c.delete("/api/v1/machines/" + id)
}

// --- Materials ---

// ListMaterials возвращает справочник материалов.
func (c *Client) ListMaterials() ([]domain.Material, error) {
	var materials []domain.Material
	err := c.list("/api/v1/materials", &materials)
	return materials, err
}

// SetMaterial создаёт материал или обновляет цену существующего.
func (c *Client) SetMaterial(name string, unitCost float64) (*domain.Material, error) {
	body := map[string]any{"name": name, "unit_cost": unitCost}
	var material domain.Material
	err := c.post("/api/v1/materials", body, &material)
	return &material, err
}

// DeleteMaterial удаляет материал.
func (c *Client) DeleteMaterial(id string) error {
	return c.delete("/api/v1/materials/" + id)
}

// --- Products ---

// ListProducts возвращает все изделия.
func (c *Client) ListProducts() ([]domain.Product, error) {
	var products []domain.Product
	err := c.list("/api/v1/products", &products)
	return products, err
}

// GetProduct возвращает изделие по ID.
func (c *Client) GetProduct(id string) (*domain.Product, error) {
	var product domain.Product
	err := c.get("/api/v1/products/"+id, &product)
	return &product, err
}

// CreateProduct создаёт изделие.
func (c *Client) CreateProduct(req CreateProductRequest) (*domain.Product, error) {
	var product domain.Product
	err := c.post("/api/v1/products", req, &product)
	return &product, err
}

// DeleteProduct удаляет изделие.
func (c *Client) DeleteProduct(id string) error {
	return c.delete("/api/v1/products/" + id)
}

// --- Routing ---

// GetRouting возвращает текущий маршрут и расчёт.
func (c *Client) GetRouting() (*RoutingResponse, error) {
	var routing RoutingResponse
	err := c.get("/api/v1/routing", &routing)
	return &routing, err
}

// ResetRouting очищает маршрут.
func (c *Client) ResetRouting() error {
	return c.delete("/api/v1/routing")
}

// AddRoutingStep добавляет шаг в маршрут.
func (c *Client) AddRoutingStep(stepID string) (*AddStepResponse, error) {
	body := map[string]string{"step_id": stepID}
	var resp AddStepResponse
	err := c.post("/api/v1/routing/steps", body, &resp)
	return &resp, err
}

// RemoveRoutingStep удаляет запись маршрута по позиции.
func (c *Client) RemoveRoutingStep(index int) (*domain.RoutingEntry, error) {
	var entry domain.RoutingEntry
	err := c.doData(http.MethodDelete, "/api/v1/routing/steps/"+strconv.Itoa(index), nil, &entry)
	return &entry, err
}

// SetRoutingParams задаёт размер и тип крепления.
// size == nil и пустой mounting оставляют текущие значения.
func (c *Client) SetRoutingParams(size *float64, mounting string) (*domain.RunParameters, error) {
	body := map[string]any{}
	if size != nil {
		body["size"] = *size
	}
	if mounting != "" {
		body["mounting"] = mounting
	}
	var params domain.RunParameters
	err := c.put("/api/v1/routing/params", body, &params)
	return &params, err
}

// Associate записывает стоимость труда в изделие.
// Если laborCost == nil, сервер берёт стоимость текущего маршрута.
func (c *Client) Associate(productID string, laborCost *float64) (*AssociateResponse, error) {
	body := map[string]any{"product_id": productID}
	if laborCost != nil {
		body["labor_cost"] = *laborCost
	}
	var resp AssociateResponse
	err := c.post("/api/v1/routing/associate", body, &resp)
	return &resp, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) put(path string, body any, result any) error {
	return c.doData(http.MethodPut, path, body, result)
}

func (c *Client) delete(path string) error {
	resp, err := c.do(http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkError(resp)
}

func (c *Client) list(path string, result any) error {
	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	// 204 No Content
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
