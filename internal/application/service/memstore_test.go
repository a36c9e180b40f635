package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dmelo/balcao-api/internal/domain/entity"
	"github.com/dmelo/balcao-api/internal/domain/enum"
	"github.com/dmelo/balcao-api/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory ledger store backing the service tests. It
// implements the domain repository interfaces plus a snapshot-based TxManager
// so rollback semantics can be asserted without a database.
type memStore struct {
	products  map[uuid.UUID]entity.Product
	customers map[uuid.UUID]entity.Customer
	sales     map[uuid.UUID]entity.Sale
	payments  []entity.CustomerPayment
	cashboxes map[uuid.UUID]entity.Cashbox
	entries   []entity.FinancialEntry
	users     map[uuid.UUID]entity.User

	clock time.Time
}

func newMemStore() *memStore {
	return &memStore{
		products:  make(map[uuid.UUID]entity.Product),
		customers: make(map[uuid.UUID]entity.Customer),
		sales:     make(map[uuid.UUID]entity.Sale),
		cashboxes: make(map[uuid.UUID]entity.Cashbox),
		users:     make(map[uuid.UUID]entity.User),
		clock:     time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

// now returns a strictly increasing timestamp so created_at ordering is
// deterministic within a test
func (m *memStore) now() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func copySale(s entity.Sale) entity.Sale {
	s.Items = append([]entity.SaleItem(nil), s.Items...)
	s.Payments = append([]entity.SalePayment(nil), s.Payments...)
	s.Customer = nil
	return s
}

func copyPayment(p entity.CustomerPayment) entity.CustomerPayment {
	p.Allocations = append([]entity.CustomerPaymentAllocation(nil), p.Allocations...)
	return p
}

type memSnapshot struct {
	products  map[uuid.UUID]entity.Product
	customers map[uuid.UUID]entity.Customer
	sales     map[uuid.UUID]entity.Sale
	payments  []entity.CustomerPayment
	cashboxes map[uuid.UUID]entity.Cashbox
	entries   []entity.FinancialEntry
	users     map[uuid.UUID]entity.User
	clock     time.Time
}

func (m *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		products:  make(map[uuid.UUID]entity.Product, len(m.products)),
		customers: make(map[uuid.UUID]entity.Customer, len(m.customers)),
		sales:     make(map[uuid.UUID]entity.Sale, len(m.sales)),
		cashboxes: make(map[uuid.UUID]entity.Cashbox, len(m.cashboxes)),
		users:     make(map[uuid.UUID]entity.User, len(m.users)),
		clock:     m.clock,
	}
	for k, v := range m.products {
		snap.products[k] = v
	}
	for k, v := range m.customers {
		snap.customers[k] = v
	}
	for k, v := range m.sales {
		snap.sales[k] = copySale(v)
	}
	for k, v := range m.cashboxes {
		snap.cashboxes[k] = v
	}
	for k, v := range m.users {
		snap.users[k] = v
	}
	for _, p := range m.payments {
		snap.payments = append(snap.payments, copyPayment(p))
	}
	snap.entries = append(snap.entries, m.entries...)
	return snap
}

func (m *memStore) restore(snap memSnapshot) {
	m.products = snap.products
	m.customers = snap.customers
	m.sales = snap.sales
	m.payments = snap.payments
	m.cashboxes = snap.cashboxes
	m.entries = snap.entries
	m.users = snap.users
	m.clock = snap.clock
}

// WithinTx snapshots the store and restores it when fn fails. Transactions do
// not nest; the services under test open one per operation.
func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := m.snapshot()
	if err := fn(ctx); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

// --- seed helpers ---

func (m *memStore) seedProduct(name, sku string, salePrice decimal.Decimal, stock int) entity.Product {
	p := entity.Product{
		ID:        uuid.New(),
		Name:      name,
		SKU:       sku,
		Category:  "general",
		SalePrice: salePrice,
		CostPrice: salePrice.Div(decimal.NewFromInt(2)),
		Stock:     stock,
		CreatedAt: m.now(),
	}
	p.RecalculateMargin()
	m.products[p.ID] = p
	return p
}

func (m *memStore) seedCustomer(name string) entity.Customer {
	c := entity.Customer{ID: uuid.New(), Name: name, CreatedAt: m.now()}
	m.customers[c.ID] = c
	return c
}

// --- ProductRepository ---

func (m *memStore) productRepo() repository.ProductRepository       { return (*memProductRepo)(m) }
func (m *memStore) customerRepo() repository.CustomerRepository     { return (*memCustomerRepo)(m) }
func (m *memStore) saleRepo() repository.SaleRepository             { return (*memSaleRepo)(m) }
func (m *memStore) paymentRepo() repository.CustomerPaymentRepository {
	return (*memPaymentRepo)(m)
}
func (m *memStore) cashboxRepo() repository.CashboxRepository       { return (*memCashboxRepo)(m) }
func (m *memStore) entryRepo() repository.FinancialEntryRepository  { return (*memEntryRepo)(m) }

type memProductRepo memStore

func (r *memProductRepo) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.CreatedAt = (*memStore)(r).now()
	r.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	var out []entity.Product
	for _, p := range r.products {
		if params.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(params.Search)) {
			continue
		}
		if params.Category != "" && p.Category != params.Category {
			continue
		}
		if params.LowStock && p.Stock > p.MinStock {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (r *memProductRepo) ListBetween(ctx context.Context, from, to *time.Time) ([]entity.Product, error) {
	var out []entity.Product
	for _, p := range r.products {
		if from != nil && p.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && p.CreatedAt.After(*to) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memProductRepo) TotalSoldByProduct(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error) {
	totals := make(map[uuid.UUID]decimal.Decimal)
	for _, s := range r.sales {
		if s.Status != enum.SaleStatusCompleted {
			continue
		}
		for _, item := range s.Items {
			totals[item.ProductID] = totals[item.ProductID].Add(item.LineTotal)
		}
	}
	return totals, nil
}

func (r *memProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

// --- CustomerRepository ---

type memCustomerRepo memStore

func (r *memCustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	customer.CreatedAt = (*memStore)(r).now()
	r.customers[customer.ID] = *customer
	return nil
}

func (r *memCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *memCustomerRepo) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	for _, c := range r.customers {
		if c.Phone != nil && *c.Phone == phone {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memCustomerRepo) List(ctx context.Context, params *repository.CustomerFilterParams) ([]entity.Customer, int64, error) {
	var out []entity.Customer
	for _, c := range r.customers {
		if params.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(params.Search)) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (r *memCustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	r.customers[customer.ID] = *customer
	return nil
}

func (r *memCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

// --- SaleRepository ---

type memSaleRepo memStore

func (r *memSaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	sale.CreatedAt = (*memStore)(r).now()
	for i := range sale.Items {
		if sale.Items[i].ID == uuid.Nil {
			sale.Items[i].ID = uuid.New()
		}
		sale.Items[i].SaleID = sale.ID
	}
	for i := range sale.Payments {
		if sale.Payments[i].ID == uuid.Nil {
			sale.Payments[i].ID = uuid.New()
		}
		sale.Payments[i].SaleID = sale.ID
	}
	r.sales[sale.ID] = copySale(*sale)
	return nil
}

func (r *memSaleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, nil
	}
	s.Items = nil
	s.Payments = nil
	return &s, nil
}

func (r *memSaleRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, nil
	}
	s = copySale(s)
	for i := range s.Items {
		if p, ok := r.products[s.Items[i].ProductID]; ok {
			s.Items[i].Product = p
		}
	}
	if s.CustomerID != nil {
		if c, ok := r.customers[*s.CustomerID]; ok {
			s.Customer = &c
		}
	}
	return &s, nil
}

// Update writes only the sale's own columns, leaving stored items and
// payments untouched, mirroring the SQL repository's omit list.
func (r *memSaleRepo) Update(ctx context.Context, sale *entity.Sale) error {
	stored, ok := r.sales[sale.ID]
	if !ok {
		return nil
	}
	stored.CustomerID = sale.CustomerID
	stored.Status = sale.Status
	stored.TotalAmount = sale.TotalAmount
	stored.Notes = sale.Notes
	r.sales[sale.ID] = stored
	return nil
}

func (r *memSaleRepo) List(ctx context.Context, params *repository.SaleFilterParams) ([]entity.Sale, int64, error) {
	var out []entity.Sale
	for _, s := range r.sales {
		if params.CustomerID != nil && (s.CustomerID == nil || *s.CustomerID != *params.CustomerID) {
			continue
		}
		if params.Status != nil && s.Status != *params.Status {
			continue
		}
		if params.StartDate != nil && s.CreatedAt.Before(*params.StartDate) {
			continue
		}
		if params.EndDate != nil && s.CreatedAt.After(*params.EndDate) {
			continue
		}
		out = append(out, copySale(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (r *memSaleRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Sale, error) {
	var out []entity.Sale
	for _, s := range r.sales {
		if s.CustomerID != nil && *s.CustomerID == customerID {
			out = append(out, copySale(s))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r *memSaleRepo) ReplaceItems(ctx context.Context, saleID uuid.UUID, items []entity.SaleItem) error {
	stored, ok := r.sales[saleID]
	if !ok {
		return nil
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].SaleID = saleID
	}
	stored.Items = append([]entity.SaleItem(nil), items...)
	r.sales[saleID] = stored
	return nil
}

func (r *memSaleRepo) ReplacePayments(ctx context.Context, saleID uuid.UUID, payments []entity.SalePayment) error {
	stored, ok := r.sales[saleID]
	if !ok {
		return nil
	}
	for i := range payments {
		if payments[i].ID == uuid.Nil {
			payments[i].ID = uuid.New()
		}
		payments[i].SaleID = saleID
	}
	stored.Payments = append([]entity.SalePayment(nil), payments...)
	r.sales[saleID] = stored
	return nil
}

func (r *memSaleRepo) SumPaymentsByMethod(ctx context.Context, start time.Time, end *time.Time) ([]repository.PaymentMethodTotal, error) {
	byMethod := make(map[string]decimal.Decimal)
	for _, s := range r.sales {
		if s.CreatedAt.Before(start) {
			continue
		}
		if end != nil && s.CreatedAt.After(*end) {
			continue
		}
		for _, p := range s.Payments {
			byMethod[string(p.Method)] = byMethod[string(p.Method)].Add(p.Amount)
		}
	}

	methods := make([]string, 0, len(byMethod))
	for method := range byMethod {
		methods = append(methods, method)
	}
	sort.Strings(methods)

	totals := make([]repository.PaymentMethodTotal, 0, len(methods))
	for _, method := range methods {
		totals = append(totals, repository.PaymentMethodTotal{
			Method: enum.PaymentMethod(method),
			Amount: byMethod[method],
		})
	}
	return totals, nil
}

// --- CustomerPaymentRepository ---

type memPaymentRepo memStore

func (r *memPaymentRepo) Create(ctx context.Context, payment *entity.CustomerPayment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	payment.CreatedAt = (*memStore)(r).now()
	for i := range payment.Allocations {
		if payment.Allocations[i].ID == uuid.Nil {
			payment.Allocations[i].ID = uuid.New()
		}
		payment.Allocations[i].PaymentID = payment.ID
	}
	r.payments = append(r.payments, copyPayment(*payment))
	return nil
}

func (r *memPaymentRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.CustomerPayment, error) {
	var out []entity.CustomerPayment
	for _, p := range r.payments {
		if p.CustomerID == customerID {
			out = append(out, copyPayment(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memPaymentRepo) SumAllocationsBySale(ctx context.Context, saleID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.payments {
		for _, a := range p.Allocations {
			if a.SaleID == saleID {
				total = total.Add(a.Amount)
			}
		}
	}
	return total, nil
}

// --- CashboxRepository ---

type memCashboxRepo memStore

func (r *memCashboxRepo) Create(ctx context.Context, cashbox *entity.Cashbox) error {
	if cashbox.ID == uuid.Nil {
		cashbox.ID = uuid.New()
	}
	cashbox.CreatedAt = (*memStore)(r).now()
	r.cashboxes[cashbox.ID] = *cashbox
	return nil
}

func (r *memCashboxRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Cashbox, error) {
	cb, ok := r.cashboxes[id]
	if !ok {
		return nil, nil
	}
	return &cb, nil
}

func (r *memCashboxRepo) List(ctx context.Context) ([]entity.Cashbox, error) {
	var out []entity.Cashbox
	for _, cb := range r.cashboxes {
		out = append(out, cb)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memCashboxRepo) Update(ctx context.Context, cashbox *entity.Cashbox) error {
	r.cashboxes[cashbox.ID] = *cashbox
	return nil
}

// --- FinancialEntryRepository ---

type memEntryRepo memStore

func (r *memEntryRepo) Create(ctx context.Context, entry *entity.FinancialEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = (*memStore)(r).now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memEntryRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.FinancialEntry, error) {
	for _, e := range r.entries {
		if e.ID == id {
			e := e
			return &e, nil
		}
	}
	return nil, nil
}

func (r *memEntryRepo) List(ctx context.Context, params *repository.FinancialEntryFilterParams) ([]entity.FinancialEntry, int64, error) {
	var out []entity.FinancialEntry
	for _, e := range r.entries {
		if params.Type != nil && e.Type != *params.Type {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (r *memEntryRepo) ListByCashboxBetween(ctx context.Context, cashboxID uuid.UUID, start time.Time, end *time.Time) ([]entity.FinancialEntry, error) {
	var out []entity.FinancialEntry
	for _, e := range r.entries {
		if e.CashboxID == nil || *e.CashboxID != cashboxID {
			continue
		}
		if e.CreatedAt.Before(start) {
			continue
		}
		if end != nil && e.CreatedAt.After(*end) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memEntryRepo) Update(ctx context.Context, entry *entity.FinancialEntry) error {
	for i := range r.entries {
		if r.entries[i].ID == entry.ID {
			r.entries[i] = *entry
			return nil
		}
	}
	return nil
}

func (r *memEntryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i := range r.entries {
		if r.entries[i].ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return nil
}
