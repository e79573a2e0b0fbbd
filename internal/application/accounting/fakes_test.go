package accounting_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memSettings struct {
	s       *entity.AccountingSettings
	getErr  error
	syncErr error
}

func (m *memSettings) Get(context.Context) (*entity.AccountingSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.s == nil {
		return nil, nil
	}
	cp := *m.s
	return &cp, nil
}

func (m *memSettings) SaveAPIKey(_ context.Context, k string) error {
	if m.s == nil {
		m.s = &entity.AccountingSettings{}
	}
	m.s.APIKey = k
	return nil
}

func (m *memSettings) SetLastSyncAt(_ context.Context, at time.Time) error {
	if m.syncErr != nil {
		return m.syncErr
	}
	if m.s == nil {
		m.s = &entity.AccountingSettings{}
	}
	m.s.LastSyncAt = &at
	return nil
}

type memCustomers struct {
	byID      map[string]*entity.Customer
	order     []string
	updateErr map[string]error // por ID local
	setErr    error
	listErr   error
}

func newMemCustomers(cs ...*entity.Customer) *memCustomers {
	m := &memCustomers{byID: map[string]*entity.Customer{}, updateErr: map[string]error{}}
	for _, c := range cs {
		m.put(c)
	}
	return m
}

func (m *memCustomers) put(c *entity.Customer) {
	if _, ok := m.byID[c.ID]; !ok {
		m.order = append(m.order, c.ID)
	}
	cp := *c
	m.byID[c.ID] = &cp
}

func (m *memCustomers) Create(_ context.Context, c *entity.Customer) error {
	if c.RemoteID != "" {
		if other, _ := m.GetByRemoteID(context.Background(), c.RemoteID); other != nil {
			return domain.ErrDuplicate
		}
	}
	m.put(c)
	return nil
}

func (m *memCustomers) Update(_ context.Context, c *entity.Customer) error {
	if err := m.updateErr[c.ID]; err != nil {
		return err
	}
	if _, ok := m.byID[c.ID]; !ok {
		return domain.ErrNotFound
	}
	m.put(c)
	return nil
}

func (m *memCustomers) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *memCustomers) GetByRemoteID(_ context.Context, remoteID string) (*entity.Customer, error) {
	for _, id := range m.order {
		if c := m.byID[id]; c.RemoteID == remoteID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memCustomers) GetByEmail(_ context.Context, email string) (*entity.Customer, error) {
	for _, id := range m.order {
		if c := m.byID[id]; c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memCustomers) ListWithoutRemoteID(context.Context) ([]*entity.Customer, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*entity.Customer
	for _, id := range m.order {
		if c := m.byID[id]; c.RemoteID == "" {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memCustomers) SetRemoteID(_ context.Context, id, remoteID string) error {
	if m.setErr != nil {
		return m.setErr
	}
	c, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.RemoteID = remoteID
	return nil
}

func (m *memCustomers) all() []*entity.Customer {
	out := make([]*entity.Customer, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	return out
}

type memServices struct {
	byRemote map[string]*entity.ServiceRecord
}

func newMemServices() *memServices {
	return &memServices{byRemote: map[string]*entity.ServiceRecord{}}
}

func (m *memServices) Create(_ context.Context, s *entity.ServiceRecord) error {
	if _, ok := m.byRemote[s.RemoteID]; ok {
		return domain.ErrDuplicate
	}
	cp := *s
	m.byRemote[s.RemoteID] = &cp
	return nil
}

func (m *memServices) Update(_ context.Context, s *entity.ServiceRecord) error {
	cp := *s
	m.byRemote[s.RemoteID] = &cp
	return nil
}

func (m *memServices) GetByRemoteID(_ context.Context, remoteID string) (*entity.ServiceRecord, error) {
	s, ok := m.byRemote[remoteID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

type memDocuments struct {
	docs []*entity.Document
}

func (m *memDocuments) Create(_ context.Context, d *entity.Document) error {
	cp := *d
	m.docs = append(m.docs, &cp)
	return nil
}

func (m *memDocuments) GetByRemoteID(_ context.Context, remoteID string) (*entity.Document, error) {
	for _, d := range m.docs {
		if d.RemoteID == remoteID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memDocuments) countFor(remoteID string) int {
	n := 0
	for _, d := range m.docs {
		if d.RemoteID == remoteID {
			n++
		}
	}
	return n
}

type memFiles struct {
	files map[string][]byte
	err   error
}

func (m *memFiles) Write(p string, data []byte) error {
	if m.err != nil {
		return m.err
	}
	if m.files == nil {
		m.files = map[string][]byte{}
	}
	m.files[p] = data
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Sistema contable falso
// ──────────────────────────────────────────────────────────────────────────────

type fakeRemote struct {
	mu sync.Mutex

	apiKeys  []string
	contacts []dto.RemoteContact
	// contactPageSize > 0 parte el listado de contactos en páginas de ese tamaño.
	contactPageSize int
	contactErrPage  int // página que falla; -1 sin fallo
	neverLast       bool

	vouchers       []dto.VoucherSummary
	voucherErrPage int
	invoices       map[string]*dto.RemoteInvoice
	invoiceErr     map[string]error
	docRefs        map[string]string // invoiceID → fileID
	files          map[string][]byte

	createErr map[string]error // por apellido
	nextID    int

	calls   []string
	created []*dto.RemoteContact
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		contactErrPage: -1,
		voucherErrPage: -1,
		invoices:       map[string]*dto.RemoteInvoice{},
		invoiceErr:     map[string]error{},
		docRefs:        map[string]string{},
		files:          map[string][]byte{},
		createErr:      map[string]error{},
	}
}

func (f *fakeRemote) factory() ports.AccountingClientFactory {
	return func(apiKey string) ports.AccountingClient {
		f.mu.Lock()
		f.apiKeys = append(f.apiKeys, apiKey)
		f.mu.Unlock()
		return f
	}
}

func (f *fakeRemote) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeRemote) callsWithPrefix(prefix string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeRemote) ListContacts(_ context.Context, page, size int) (*dto.Page[dto.RemoteContact], error) {
	f.record(fmt.Sprintf("contacts:%d", page))
	if page == f.contactErrPage {
		return nil, errors.New("HTTP 500")
	}
	per := f.contactPageSize
	if per <= 0 {
		per = len(f.contacts) + 1
	}
	from := page * per
	if from >= len(f.contacts) {
		return &dto.Page[dto.RemoteContact]{Last: !f.neverLast, Number: page}, nil
	}
	to := from + per
	if to > len(f.contacts) {
		to = len(f.contacts)
	}
	return &dto.Page[dto.RemoteContact]{
		Content: append([]dto.RemoteContact(nil), f.contacts[from:to]...),
		Last:    to == len(f.contacts) && !f.neverLast,
		Number:  page,
	}, nil
}

func (f *fakeRemote) CreateContact(_ context.Context, c *dto.RemoteContact) (*dto.CreatedResource, error) {
	last := ""
	if c.Person != nil {
		last = c.Person.LastName
	}
	f.record("create:" + last)
	if err := f.createErr[last]; err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("R%d", f.nextID)
	f.created = append(f.created, c)
	stored := *c
	stored.ID = id
	f.contacts = append(f.contacts, stored)
	return &dto.CreatedResource{ID: id}, nil
}

func (f *fakeRemote) ListInvoiceVouchers(_ context.Context, statuses []string, page, size int) (*dto.Page[dto.VoucherSummary], error) {
	f.record(fmt.Sprintf("vouchers:%d", page))
	if page == f.voucherErrPage {
		return nil, errors.New("HTTP 503")
	}
	if page > 0 {
		return &dto.Page[dto.VoucherSummary]{Last: true, Number: page}, nil
	}
	return &dto.Page[dto.VoucherSummary]{Content: f.vouchers, Last: f.voucherErrPage < 0, Number: page}, nil
}

func (f *fakeRemote) GetInvoice(_ context.Context, id string) (*dto.RemoteInvoice, error) {
	f.record("invoice:" + id)
	if err := f.invoiceErr[id]; err != nil {
		return nil, err
	}
	inv, ok := f.invoices[id]
	if !ok {
		return nil, errors.New("HTTP 404")
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeRemote) GetInvoiceDocument(_ context.Context, invoiceID string) (*dto.DocumentFileRef, error) {
	f.record("document:" + invoiceID)
	return &dto.DocumentFileRef{DocumentFileID: f.docRefs[invoiceID]}, nil
}

func (f *fakeRemote) DownloadFile(_ context.Context, fileID string) ([]byte, error) {
	f.record("file:" + fileID)
	data, ok := f.files[fileID]
	if !ok {
		return nil, errors.New("HTTP 404")
	}
	return data, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Esperas y reloj
// ──────────────────────────────────────────────────────────────────────────────

type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *recordingSleeper) histogram() map[time.Duration]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := map[time.Duration]int{}
	for _, d := range s.delays {
		h[d]++
	}
	return h
}

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }
