package accounting_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/accounting"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	remote    *fakeRemote
	settings  *memSettings
	customers *memCustomers
	services  *memServices
	documents *memDocuments
	files     *memFiles
	sleeper   *recordingSleeper
	cfg       accounting.Config
}

func newFixture(customers ...*entity.Customer) *fixture {
	return &fixture{
		remote:    newFakeRemote(),
		settings:  &memSettings{s: &entity.AccountingSettings{APIKey: "test-key"}},
		customers: newMemCustomers(customers...),
		services:  newMemServices(),
		documents: &memDocuments{},
		files:     &memFiles{},
		sleeper:   &recordingSleeper{},
		cfg:       accounting.DefaultConfig(),
	}
}

func (f *fixture) engine() *accounting.Engine {
	return accounting.NewEngine(f.cfg, accounting.Deps{
		Settings:  f.settings,
		Customers: f.customers,
		Services:  f.services,
		Documents: f.documents,
		Client:    f.remote.factory(),
		Files:     f.files,
		Sleeper:   f.sleeper,
		Clock:     fixedClock,
		Logger:    zerolog.Nop(),
	})
}

func (f *fixture) run(t *testing.T) *accounting.Report {
	t.Helper()
	report, err := f.engine().Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, report)
	return report
}

func personContact(id, first, last, email string) dto.RemoteContact {
	c := dto.RemoteContact{
		ID:     id,
		Person: &dto.ContactPerson{FirstName: first, LastName: last},
	}
	if email != "" {
		c.EmailAddresses = &dto.ContactEmails{Business: []string{email}}
	}
	return c
}

func linkedInvoice(f *fixture, id, number, contactID string, gross string) {
	f.remote.vouchers = append(f.remote.vouchers, dto.VoucherSummary{
		ID: id, VoucherType: "invoice", VoucherStatus: "open", VoucherNumber: number,
		VoucherDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	f.remote.invoices[id] = &dto.RemoteInvoice{
		ID:            id,
		VoucherNumber: number,
		VoucherDate:   time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC),
		Address:       dto.InvoiceAddress{ContactID: contactID},
		TotalPrice: dto.InvoiceTotals{
			Currency:         "EUR",
			TotalGrossAmount: decimal.NewNullDecimal(decimal.RequireFromString(gross)),
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Importación de contactos
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: una página con una persona y una empresa.
func TestRun_ImportaPersonaYEmpresa(t *testing.T) {
	f := newFixture()
	person := personContact("C1", "Anna", "Schmidt", "anna@example.de")
	person.Addresses = &dto.ContactAddresses{Billing: []dto.PostalAddress{{Street: "Hauptstr. 5", Zip: "10115", City: "Berlin"}}}
	company := dto.RemoteContact{ID: "C2", Company: &dto.ContactCompany{Name: "Autohaus Nord GmbH"}}
	f.remote.contacts = []dto.RemoteContact{person, company}

	report := f.run(t)

	assert.Equal(t, 2, report.Summary.SyncedCount)
	assert.Equal(t, 0, report.Summary.UpdatedCount)
	assert.Equal(t, 0, report.Summary.ExportedCount, "los clientes importados ya están vinculados")

	all := f.customers.all()
	require.Len(t, all, 2)
	anna, _ := f.customers.GetByRemoteID(context.Background(), "C1")
	require.NotNil(t, anna)
	assert.Equal(t, "Anna", anna.FirstName)
	assert.Equal(t, "Schmidt", anna.LastName)
	assert.Equal(t, "anna@example.de", anna.Email)
	assert.Equal(t, "Hauptstr. 5, 10115 Berlin", anna.Address)

	firma, _ := f.customers.GetByRemoteID(context.Background(), "C2")
	require.NotNil(t, firma)
	assert.Equal(t, "Autohaus Nord GmbH", firma.FirstName)
	assert.Equal(t, entity.CompanyPlaceholderLastName, firma.LastName)

	assert.Equal(t, []string{"test-key"}, f.remote.apiKeys)
	assert.Empty(t, f.remote.callsWithPrefix("create:"))
}

// Caso 2: repetir sin cambios remotos actualiza en lugar de duplicar.
func TestRun_Idempotente(t *testing.T) {
	f := newFixture()
	f.remote.contacts = []dto.RemoteContact{
		personContact("C1", "Anna", "Schmidt", "anna@example.de"),
		{ID: "C2", Company: &dto.ContactCompany{Name: "Autohaus Nord GmbH"}},
	}
	f.run(t)
	before := *f.customers.all()[0]

	report := f.run(t)

	assert.Equal(t, 0, report.Summary.SyncedCount)
	assert.Equal(t, 2, report.Summary.UpdatedCount)
	require.Len(t, f.customers.all(), 2)
	after := f.customers.all()[0]
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, before.Email, after.Email)
}

func TestRun_VinculaPorEmail(t *testing.T) {
	local := &entity.Customer{ID: "L1", FirstName: "Jonas", LastName: "Weber", Email: "jonas@example.de"}
	f := newFixture(local)
	f.remote.contacts = []dto.RemoteContact{personContact("C7", "Jonas", "Weber-Lang", "jonas@example.de")}

	report := f.run(t)

	assert.Equal(t, 0, report.Summary.SyncedCount)
	assert.Equal(t, 1, report.Summary.UpdatedCount)
	assert.Equal(t, 0, report.Summary.ExportedCount, "vinculado antes de la exportación")
	got, _ := f.customers.GetByID(context.Background(), "L1")
	assert.Equal(t, "C7", got.RemoteID)
	assert.Equal(t, "Weber-Lang", got.LastName, "gana el dato remoto")
	assert.Equal(t, fixedNow, got.UpdatedAt)
	assert.Empty(t, f.remote.callsWithPrefix("create:"))
}

func TestRun_ContactoSinEmailNoBuscaPorEmail(t *testing.T) {
	local := &entity.Customer{ID: "L1", FirstName: "Ohne", LastName: "Mail"}
	f := newFixture(local)
	f.remote.contacts = []dto.RemoteContact{personContact("C1", "Ohne", "Mail", "")}

	report := f.run(t)

	assert.Equal(t, 1, report.Summary.SyncedCount, "sin email se crea un cliente nuevo")
	assert.Len(t, f.customers.all(), 2)
}

func TestRun_FalloDePaginacionDeContactosEsFatal(t *testing.T) {
	f := newFixture(&entity.Customer{ID: "L1", FirstName: "Eva", LastName: "Mueller"})
	f.remote.contactPageSize = 1
	f.remote.contacts = []dto.RemoteContact{
		personContact("C1", "A", "B", ""),
		personContact("C2", "C", "D", ""),
	}
	f.remote.contactErrPage = 1

	report, err := f.engine().Run(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAccountingUnavailable))
	assert.Nil(t, report)
	assert.Len(t, f.customers.all(), 1, "sin escrituras locales")
	assert.Empty(t, f.remote.callsWithPrefix("create:"), "no se exporta")
	assert.Empty(t, f.remote.callsWithPrefix("vouchers:"))
	assert.Nil(t, f.settings.s.LastSyncAt)
}

func TestRun_TopeDePaginas(t *testing.T) {
	f := newFixture()
	f.cfg.MaxPages = 3
	f.remote.contactPageSize = 1
	f.remote.neverLast = true
	for _, id := range []string{"C1", "C2", "C3", "C4", "C5"} {
		f.remote.contacts = append(f.remote.contacts, personContact(id, "X", id, ""))
	}

	report := f.run(t)

	assert.True(t, report.ContactPagesCapped)
	assert.Equal(t, 3, report.Summary.SyncedCount)
	assert.Len(t, f.remote.callsWithPrefix("contacts:"), 3)
}

func TestRun_ErrorDeUnContactoNoDetieneElLote(t *testing.T) {
	f := newFixture(&entity.Customer{ID: "L1", FirstName: "A", LastName: "B", RemoteID: "C1"})
	f.customers.updateErr["L1"] = errors.New("db caída")
	f.remote.contacts = []dto.RemoteContact{
		personContact("C1", "A", "B", ""),
		personContact("C2", "C", "D", ""),
		{Person: &dto.ContactPerson{LastName: "SinID"}},
	}

	report := f.run(t)

	assert.Equal(t, 1, report.Summary.SyncedCount)
	require.Len(t, report.Contacts.Failed, 2)
	assert.Equal(t, "C1", report.Contacts.Failed[0].Item)
	assert.Equal(t, []string{"C2"}, report.Contacts.Succeeded)
}

// ──────────────────────────────────────────────────────────────────────────────
// Exportación de clientes
// ──────────────────────────────────────────────────────────────────────────────

// Caso 3: un cliente local sin vincular se exporta una sola vez.
func TestRun_ExportaUnaSolaVez(t *testing.T) {
	f := newFixture(&entity.Customer{
		ID: "L1", FirstName: "Eva", LastName: "Mueller",
		Email: "eva@example.de", Phone: "0171 123456", Address: "Ringstr. 3, 80331 München",
	})

	r1 := f.run(t)
	assert.Equal(t, 1, r1.Summary.ExportedCount)
	got, _ := f.customers.GetByID(context.Background(), "L1")
	assert.Equal(t, "R1", got.RemoteID)

	require.Len(t, f.remote.created, 1)
	payload := f.remote.created[0]
	require.NotNil(t, payload.Roles)
	assert.NotNil(t, payload.Roles.Customer)
	assert.Equal(t, "Mueller", payload.Person.LastName)
	require.NotNil(t, payload.Addresses)
	assert.Equal(t, dto.PostalAddress{Street: "Ringstr. 3", Zip: "80331", City: "München", CountryCode: "DE"}, payload.Addresses.Billing[0])
	assert.Equal(t, []string{"eva@example.de"}, payload.EmailAddresses.Business)
	assert.Equal(t, []string{"0171 123456"}, payload.PhoneNumbers.Mobile)

	r2 := f.run(t)
	r3 := f.run(t)
	assert.Equal(t, 0, r2.Summary.ExportedCount)
	assert.Equal(t, 0, r3.Summary.ExportedCount)
	assert.Len(t, f.remote.callsWithPrefix("create:"), 1)
	assert.Len(t, f.customers.all(), 1, "la importación posterior enlaza por remoteID")
}

// Caso 4: el marcador de empresa nunca se exporta.
func TestRun_MarcadorDeEmpresaNuncaSeExporta(t *testing.T) {
	f := newFixture(
		&entity.Customer{ID: "L1", FirstName: "Autohaus Nord", LastName: entity.CompanyPlaceholderLastName},
		&entity.Customer{ID: "L2", FirstName: "Sin", LastName: ""},
	)

	for i := 0; i < 3; i++ {
		report := f.run(t)
		assert.Equal(t, 0, report.Summary.ExportedCount)
	}
	assert.Empty(t, f.remote.callsWithPrefix("create:"))
}

func TestRun_FalloDeExportacionIndividual(t *testing.T) {
	f := newFixture(
		&entity.Customer{ID: "L1", FirstName: "A", LastName: "Falla"},
		&entity.Customer{ID: "L2", FirstName: "B", LastName: "Bien"},
	)
	f.remote.createErr["Falla"] = errors.New("HTTP 400")

	report := f.run(t)

	assert.Equal(t, 1, report.Summary.ExportedCount)
	require.Len(t, report.Export.Failed, 1)
	assert.Equal(t, "L1", report.Export.Failed[0].Item)
	assert.Equal(t, []string{"L2"}, report.Export.Succeeded)

	l1, _ := f.customers.GetByID(context.Background(), "L1")
	assert.Empty(t, l1.RemoteID, "se reintenta en la próxima sincronización")

	delete(f.remote.createErr, "Falla")
	report = f.run(t)
	assert.Equal(t, 1, report.Summary.ExportedCount)
}

// throttledErr error remoto que distingue un HTTP 429.
type throttledErr struct{ status int }

func (e throttledErr) Error() string     { return "remote error" }
func (e throttledErr) RateLimited() bool { return e.status == 429 }

func TestRun_FallosPorLimiteDePeticiones(t *testing.T) {
	f := newFixture(
		&entity.Customer{ID: "L1", FirstName: "A", LastName: "Lenta"},
		&entity.Customer{ID: "L2", FirstName: "B", LastName: "Falla"},
	)
	f.remote.createErr["Lenta"] = throttledErr{status: 429}
	f.remote.createErr["Falla"] = throttledErr{status: 400}

	report := f.run(t)

	require.Len(t, report.Export.Failed, 2)
	byItem := map[string]bool{}
	for _, fl := range report.Export.Failed {
		byItem[fl.Item] = fl.RateLimited
	}
	assert.True(t, byItem["L1"])
	assert.False(t, byItem["L2"])
	assert.Equal(t, 2, report.FailedCount())
	assert.Equal(t, 1, report.RateLimitedCount())
}

func TestRun_DireccionSinComaVaComoCalle(t *testing.T) {
	f := newFixture(&entity.Customer{ID: "L1", FirstName: "A", LastName: "B", Address: "Dorfplatz 1"})

	f.run(t)

	require.Len(t, f.remote.created, 1)
	require.NotNil(t, f.remote.created[0].Addresses)
	assert.Equal(t, "Dorfplatz 1", f.remote.created[0].Addresses.Billing[0].Street)
	assert.Empty(t, f.remote.created[0].Addresses.Billing[0].Zip)
	assert.Nil(t, f.remote.created[0].EmailAddresses)
}

func TestRun_ErrorAlListarPendientesNoEsFatal(t *testing.T) {
	f := newFixture()
	f.customers.listErr = errors.New("timeout")
	f.remote.contacts = []dto.RemoteContact{personContact("C1", "A", "B", "")}
	linkedInvoice(f, "INV1", "RE-1", "C1", "10.00")

	report := f.run(t)

	require.Len(t, report.Export.Failed, 1)
	assert.Equal(t, 1, report.Summary.InvoiceDocumentsSynced, "las facturas se procesan igual")
}

// ──────────────────────────────────────────────────────────────────────────────
// Importación de facturas
// ──────────────────────────────────────────────────────────────────────────────

func TestRun_FacturaCreaHistorialYDocumento(t *testing.T) {
	f := newFixture(&entity.Customer{ID: "L1", FirstName: "A", LastName: "B", RemoteID: "C1"})
	f.remote.contacts = []dto.RemoteContact{personContact("C1", "A", "B", "")}
	linkedInvoice(f, "INV1", "RE-2026/001", "C1", "119.00")
	f.remote.docRefs["INV1"] = "F1"
	f.remote.files["F1"] = []byte("%PDF-1.4")

	report := f.run(t)

	assert.Equal(t, 1, report.Summary.InvoiceDocumentsSynced)
	assert.Equal(t, 1, report.Summary.DocumentsDownloaded)

	rec, _ := f.services.GetByRemoteID(context.Background(), "INV1")
	require.NotNil(t, rec)
	assert.Equal(t, "L1", rec.CustomerID)
	assert.Equal(t, "Rechnung RE-2026/001", rec.Description)
	assert.Equal(t, time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC), rec.Date)
	require.True(t, rec.Cost.Valid)
	assert.True(t, decimal.RequireFromString("119").Equal(rec.Cost.Decimal))

	doc, _ := f.documents.GetByRemoteID(context.Background(), "INV1")
	require.NotNil(t, doc)
	assert.Equal(t, entity.DocumentTypeInvoice, doc.Type)
	assert.Equal(t, "Rechnung RE-2026/001.pdf", doc.Name)
	assert.True(t, strings.HasPrefix(doc.Path, "invoices/"))
	assert.True(t, strings.HasSuffix(doc.Path, "_RE-2026_001.pdf"))
	assert.Equal(t, []byte("%PDF-1.4"), f.files.files[doc.Path])
}

func TestRun_FacturaSeActualizaSinDuplicar(t *testing.T) {
	f := newFixture(&entity.Customer{ID: "L1", FirstName: "A", LastName: "B", RemoteID: "C1"})
	f.remote.contacts = []dto.RemoteContact{personContact("C1", "A", "B", "")}
	linkedInvoice(f, "INV1", "RE-1", "C1", "50.00")
	f.remote.docRefs["INV1"] = "F1"
	f.remote.files["F1"] = []byte("pdf")
	f.run(t)

	f.remote.invoices["INV1"].TotalPrice.TotalGrossAmount = decimal.NewNullDecimal(decimal.RequireFromString("75.50"))
	report := f.run(t)

	assert.Equal(t, 1, report.Summary.InvoiceDocumentsSynced)
	assert.Equal(t, 0, report.Summary.DocumentsDownloaded)
	assert.Len(t, f.services.byRemote, 1)
	rec, _ := f.services.GetByRemoteID(context.Background(), "INV1")
	assert.True(t, decimal.RequireFromString("75.5").Equal(rec.Cost.Decimal))
	assert.Equal(t, 1, f.documents.countFor("INV1"))
}

// Caso 5: factura de un contacto sin cliente local.
func TestRun_FacturaSinClienteSeOmite(t *testing.T) {
	f := newFixture()
	linkedInvoice(f, "INV1", "RE-1", "C9", "10.00")
	f.remote.docRefs["INV1"] = "F1"
	f.remote.files["F1"] = []byte("pdf")

	report := f.run(t)

	assert.Equal(t, []string{"INV1"}, report.Invoices.Skipped)
	assert.Equal(t, 0, report.Summary.InvoiceDocumentsSynced)
	assert.Empty(t, f.services.byRemote)
	assert.Zero(t, f.documents.countFor("INV1"))
	assert.Empty(t, f.remote.callsWithPrefix("document:"))
}

func TestRun_FacturaSinContactoSeOmite(t *testing.T) {
	f := newFixture(&entity.Customer{ID: "L1", FirstName: "A", LastName: "B", RemoteID: "C1"})
	linkedInvoice(f, "INV1", "RE-1", "", "10.00")

	report := f.run(t)

	assert.Equal(t, []string{"INV1"}, report.Invoices.Skipped)
	assert.Empty(t, f.services.byRemote)
}

// Caso 6: factura que ya tiene documento no vuelve a pedir el PDF.
func TestRun_DocumentoExistenteNoSeDescarga(t *testing.T) {
	f := newFixture(&entity.Customer{ID: "L1", FirstName: "A", LastName: "B", RemoteID: "C1"})
	f.remote.contacts = []dto.RemoteContact{personContact("C1", "A", "B", "")}
	linkedInvoice(f, "INV2", "RE-2", "C1", "20.00")
	f.remote.docRefs["INV2"] = "F2"
	f.remote.files["F2"] = []byte("pdf")
	require.NoError(t, f.documents.Create(context.Background(), &entity.Document{
		ID: "D1", RemoteID: "INV2", CustomerID: "L1", Type: entity.DocumentTypeInvoice,
	}))

	report := f.run(t)

	assert.Equal(t, 1, report.Summary.InvoiceDocumentsSynced)
	assert.Equal(t, 0, report.Summary.DocumentsDownloaded)
	assert.Empty(t, f.remote.callsWithPrefix("document:INV2"))
	assert.Empty(t, f.remote.callsWithPrefix("file:"))
	assert.Equal(t, 1, f.documents.countFor("INV2"))
}

func TestRun_FacturaSinPDF(t *testing.T) {
	f := newFixture(&entity.Customer{ID: "L1", FirstName: "A", LastName: "B", RemoteID: "C1"})
	f.remote.contacts = []dto.RemoteContact{personContact("C1", "A", "B", "")}
	linkedInvoice(f, "INV1", "RE-1", "C1", "10.00")

	report := f.run(t)

	assert.Equal(t, []string{"INV1"}, report.Documents.Skipped)
	assert.Empty(t, f.remote.callsWithPrefix("file:"))
	assert.Zero(t, f.documents.countFor("INV1"))
}

func TestRun_FalloDeDescargaSeReintenta(t *testing.T) {
	f := newFixture(&entity.Customer{ID: "L1", FirstName: "A", LastName: "B", RemoteID: "C1"})
	f.remote.contacts = []dto.RemoteContact{personContact("C1", "A", "B", "")}
	linkedInvoice(f, "INV1", "RE-1", "C1", "10.00")
	f.remote.docRefs["INV1"] = "F1" // sin binario → 404

	report := f.run(t)
	require.Len(t, report.Documents.Failed, 1)
	assert.Zero(t, f.documents.countFor("INV1"))

	f.remote.files["F1"] = []byte("pdf")
	report = f.run(t)
	assert.Equal(t, 1, report.Summary.DocumentsDownloaded)
}

func TestRun_ErrorAlLeerFacturaNoDetieneLasDemas(t *testing.T) {
	f := newFixture(&entity.Customer{ID: "L1", FirstName: "A", LastName: "B", RemoteID: "C1"})
	f.remote.contacts = []dto.RemoteContact{personContact("C1", "A", "B", "")}
	linkedInvoice(f, "INV1", "RE-1", "C1", "10.00")
	linkedInvoice(f, "INV2", "RE-2", "C1", "20.00")
	f.remote.invoiceErr["INV1"] = errors.New("HTTP 429")

	report := f.run(t)

	require.Len(t, report.Invoices.Failed, 1)
	assert.Equal(t, "INV1", report.Invoices.Failed[0].Item)
	assert.Equal(t, []string{"INV2"}, report.Invoices.Succeeded)
}

func TestRun_FalloDePaginacionDeFacturasNoEsFatal(t *testing.T) {
	f := newFixture(&entity.Customer{ID: "L1", FirstName: "A", LastName: "B", RemoteID: "C1"})
	f.remote.contacts = []dto.RemoteContact{personContact("C1", "A", "B", "")}
	linkedInvoice(f, "INV1", "RE-1", "C1", "10.00")
	f.remote.voucherErrPage = 1

	report := f.run(t)

	require.Error(t, report.VoucherListErr)
	assert.Equal(t, 1, report.Summary.InvoiceDocumentsSynced, "se procesa lo ya leído")
	assert.Equal(t, 1, report.Summary.UpdatedCount)
}

// ──────────────────────────────────────────────────────────────────────────────
// Credencial, marca de sincronización, esperas y cancelación
// ──────────────────────────────────────────────────────────────────────────────

func TestRun_SinCredencial(t *testing.T) {
	for name, s := range map[string]*entity.AccountingSettings{
		"sin registro": nil,
		"key vacía":    {APIKey: ""},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			f.settings.s = s

			report, err := f.engine().Run(context.Background())

			assert.ErrorIs(t, err, domain.ErrAccountingNotConfigured)
			assert.Nil(t, report)
			assert.Empty(t, f.remote.apiKeys, "no se construye cliente")
			assert.Empty(t, f.remote.calls)
		})
	}
}

func TestRun_ErrorLeyendoConfiguracion(t *testing.T) {
	f := newFixture()
	f.settings.getErr = errors.New("conexión rechazada")

	_, err := f.engine().Run(context.Background())

	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrAccountingNotConfigured))
}

func TestRun_GuardaLastSyncAt(t *testing.T) {
	f := newFixture()

	report := f.run(t)

	require.NotNil(t, f.settings.s.LastSyncAt)
	assert.Equal(t, fixedNow, *f.settings.s.LastSyncAt)
	assert.Equal(t, fixedNow, report.StartedAt)
	assert.Equal(t, fixedNow, report.FinishedAt)
}

func TestRun_FalloAlGuardarLastSyncAtNoEsFatal(t *testing.T) {
	f := newFixture()
	f.settings.syncErr = errors.New("solo lectura")

	_, err := f.engine().Run(context.Background())
	assert.NoError(t, err)
}

func TestRun_EsperasEntreLlamadas(t *testing.T) {
	f := newFixture(
		&entity.Customer{ID: "L1", FirstName: "A", LastName: "Neu"},
		&entity.Customer{ID: "L2", FirstName: "A", LastName: "B", RemoteID: "C1"},
	)
	f.remote.contacts = []dto.RemoteContact{personContact("C1", "A", "B", "")}
	linkedInvoice(f, "INV1", "RE-1", "C1", "10.00")
	f.remote.docRefs["INV1"] = "F1"
	f.remote.files["F1"] = []byte("pdf")

	f.run(t)

	assert.Equal(t, map[time.Duration]int{
		300 * time.Millisecond: 1, // alta del contacto
		500 * time.Millisecond: 1, // lectura de la factura
		200 * time.Millisecond: 2, // referencia y binario del PDF
	}, f.sleeper.histogram())
}

func TestRun_CancelacionDevuelveErrorDelContexto(t *testing.T) {
	f := newFixture()
	f.remote.contacts = []dto.RemoteContact{personContact("C1", "A", "B", "")}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.engine().Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.customers.all())
}

func TestSummary_String(t *testing.T) {
	s := accounting.Summary{SyncedCount: 3, UpdatedCount: 2, ExportedCount: 1, InvoiceDocumentsSynced: 7, DocumentsDownloaded: 4}
	assert.Equal(t, "Synchronisierung abgeschlossen: 3 neu, 2 aktualisiert, 1 exportiert, 7 Rechnungen", s.String())
}
