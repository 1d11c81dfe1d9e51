package facturacion_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kenjidavila/ecf-rd/internal/application/facturacion"
	"github.com/kenjidavila/ecf-rd/internal/domain"
	"github.com/kenjidavila/ecf-rd/internal/domain/entity"
	"github.com/kenjidavila/ecf-rd/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria (puertos de persistencia)
// ──────────────────────────────────────────────────────────────────────────────

type fakeEmpresaRepo struct {
	empresas map[string]*entity.Empresa
}

func newFakeEmpresaRepo(empresas ...*entity.Empresa) *fakeEmpresaRepo {
	r := &fakeEmpresaRepo{empresas: map[string]*entity.Empresa{}}
	for _, e := range empresas {
		r.empresas[e.ID] = e
	}
	return r
}

func (r *fakeEmpresaRepo) Create(e *entity.Empresa) error {
	r.empresas[e.ID] = e
	return nil
}

func (r *fakeEmpresaRepo) GetByID(id string) (*entity.Empresa, error) {
	return r.empresas[id], nil
}

func (r *fakeEmpresaRepo) GetByRNC(rnc string) (*entity.Empresa, error) {
	for _, e := range r.empresas {
		if e.RNC == rnc {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeEmpresaRepo) List(limit, offset int) ([]*entity.Empresa, error) {
	out := make([]*entity.Empresa, 0, len(r.empresas))
	for _, e := range r.empresas {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeEmpresaRepo) Update(e *entity.Empresa) error {
	r.empresas[e.ID] = e
	return nil
}

type fakeClienteRepo struct {
	clientes map[string]*entity.Cliente
}

func newFakeClienteRepo(clientes ...*entity.Cliente) *fakeClienteRepo {
	r := &fakeClienteRepo{clientes: map[string]*entity.Cliente{}}
	for _, c := range clientes {
		r.clientes[c.ID] = c
	}
	return r
}

func (r *fakeClienteRepo) Create(c *entity.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

func (r *fakeClienteRepo) GetByID(id string) (*entity.Cliente, error) {
	return r.clientes[id], nil
}

func (r *fakeClienteRepo) GetByEmpresaAndRNC(empresaID, rnc string) (*entity.Cliente, error) {
	for _, c := range r.clientes {
		if c.EmpresaID == empresaID && c.RNC == rnc {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeClienteRepo) ListByEmpresa(empresaID string, limit, offset int) ([]*entity.Cliente, error) {
	var out []*entity.Cliente
	for _, c := range r.clientes {
		if c.EmpresaID == empresaID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeClienteRepo) Update(c *entity.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

func (r *fakeClienteRepo) Delete(id string) error {
	delete(r.clientes, id)
	return nil
}

type fakeItemRepo struct {
	items map[string]*entity.Item
}

func newFakeItemRepo(items ...*entity.Item) *fakeItemRepo {
	r := &fakeItemRepo{items: map[string]*entity.Item{}}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

func (r *fakeItemRepo) Create(it *entity.Item) error {
	r.items[it.ID] = it
	return nil
}

func (r *fakeItemRepo) GetByID(id string) (*entity.Item, error) {
	return r.items[id], nil
}

func (r *fakeItemRepo) GetByEmpresaAndCodigo(empresaID, codigo string) (*entity.Item, error) {
	for _, it := range r.items {
		if it.EmpresaID == empresaID && it.Codigo == codigo {
			return it, nil
		}
	}
	return nil, nil
}

func (r *fakeItemRepo) ListByEmpresa(empresaID string, limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, it := range r.items {
		if it.EmpresaID == empresaID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) Update(it *entity.Item) error {
	r.items[it.ID] = it
	return nil
}

func (r *fakeItemRepo) Delete(id string) error {
	delete(r.items, id)
	return nil
}

type fakeSecuenciaRepo struct {
	mu         sync.Mutex
	secuencias map[string]*entity.Secuencia
}

func newFakeSecuenciaRepo(secuencias ...*entity.Secuencia) *fakeSecuenciaRepo {
	r := &fakeSecuenciaRepo{secuencias: map[string]*entity.Secuencia{}}
	for _, s := range secuencias {
		r.secuencias[s.ID] = s
	}
	return r
}

func (r *fakeSecuenciaRepo) Create(ctx context.Context, s *entity.Secuencia) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.secuencias[s.ID] = s
	return nil
}

func (r *fakeSecuenciaRepo) GetByID(ctx context.Context, id string) (*entity.Secuencia, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.secuencias[id], nil
}

func (r *fakeSecuenciaRepo) GetActivaByEmpresaAndTipo(ctx context.Context, empresaID, tipoECF string) (*entity.Secuencia, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.secuencias {
		if s.EmpresaID == empresaID && s.TipoECF == tipoECF && s.Activa {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSecuenciaRepo) TomarSiguiente(ctx context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.secuencias[id]
	if !ok || s.Proximo > s.Hasta {
		return 0, domain.ErrSecuenciaAgotada
	}
	n := s.Proximo
	s.Proximo++
	return n, nil
}

func (r *fakeSecuenciaRepo) ListByEmpresa(ctx context.Context, empresaID string) ([]*entity.Secuencia, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Secuencia
	for _, s := range r.secuencias {
		if s.EmpresaID == empresaID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSecuenciaRepo) Update(ctx context.Context, s *entity.Secuencia) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.secuencias[s.ID] = s
	return nil
}

type fakeComprobanteRepo struct {
	mu           sync.Mutex
	comprobantes map[string]*entity.Comprobante
	detalles     map[string][]*entity.ComprobanteDetalle
}

func newFakeComprobanteRepo() *fakeComprobanteRepo {
	return &fakeComprobanteRepo{
		comprobantes: map[string]*entity.Comprobante{},
		detalles:     map[string][]*entity.ComprobanteDetalle{},
	}
}

func (r *fakeComprobanteRepo) Create(c *entity.Comprobante) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.comprobantes[c.ID] = &cp
	return nil
}

func (r *fakeComprobanteRepo) CreateDetalle(d *entity.ComprobanteDetalle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detalles[d.ComprobanteID] = append(r.detalles[d.ComprobanteID], d)
	return nil
}

func (r *fakeComprobanteRepo) Update(c *entity.Comprobante) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.comprobantes[c.ID] = &cp
	return nil
}

func (r *fakeComprobanteRepo) GetByID(id string) (*entity.Comprobante, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comprobantes[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeComprobanteRepo) GetByENCF(empresaID, encf string) (*entity.Comprobante, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.comprobantes {
		if c.EmpresaID == empresaID && c.ENCF == encf {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeComprobanteRepo) GetDetallesByComprobanteID(comprobanteID string) ([]*entity.ComprobanteDetalle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.detalles[comprobanteID], nil
}

func (r *fakeComprobanteRepo) ListByEmpresa(empresaID string, limit, offset int) ([]*entity.Comprobante, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Comprobante
	for _, c := range r.comprobantes {
		if c.EmpresaID == empresaID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeComprobanteRepo) GetEstado(id string) (*entity.Comprobante, error) {
	return r.GetByID(id)
}

// fakeTxRunner ejecuta el callback directamente contra los fakes, sin tx real.
type fakeTxRunner struct {
	secRepo  *fakeSecuenciaRepo
	compRepo *fakeComprobanteRepo
}

func (r *fakeTxRunner) RunEmision(ctx context.Context, fn func(
	secRepo repository.SecuenciaRepository,
	compRepo repository.ComprobanteRepository,
) error) error {
	return fn(r.secRepo, r.compRepo)
}

// fakeProcesador registra los IDs disparados sin procesar nada.
type fakeProcesador struct {
	mu  sync.Mutex
	ids []string
}

func (p *fakeProcesador) ProcessAsync(comprobanteID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = append(p.ids, comprobanteID)
}

func (p *fakeProcesador) llamadas() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.ids...)
}

var _ facturacion.Procesador = (*fakeProcesador)(nil)

// ──────────────────────────────────────────────────────────────────────────────
// Datos base
// ──────────────────────────────────────────────────────────────────────────────

const (
	empresaIDTest = "00000000-0000-0000-0000-0000000000e1"
	clienteIDTest = "00000000-0000-0000-0000-0000000000c1"
	itemIDTest    = "00000000-0000-0000-0000-0000000000a1"
)

func empresaDePrueba() *entity.Empresa {
	return &entity.Empresa{
		ID:          empresaIDTest,
		RNC:         "130000001",
		RazonSocial: "Comercial Quisqueya SRL",
		Direccion:   "Av. 27 de Febrero 100",
		Municipio:   "Santo Domingo",
		Provincia:   "Distrito Nacional",
		Status:      "active",
	}
}

func clienteDePrueba() *entity.Cliente {
	return &entity.Cliente{
		ID:          clienteIDTest,
		EmpresaID:   empresaIDTest,
		RNC:         "101000007",
		RazonSocial: "Cliente Uno SRL",
	}
}

func itemDePrueba() *entity.Item {
	return &entity.Item{
		ID:           itemIDTest,
		EmpresaID:    empresaIDTest,
		Codigo:       "SRV-001",
		Nombre:       "Servicio de consultoría",
		TipoItem:     2,
		Precio:       decimal.RequireFromString("1500.00"),
		TasaITBIS:    "18",
		UnidadMedida: "43",
	}
}

func secuenciaDePrueba(tipoECF string) *entity.Secuencia {
	return &entity.Secuencia{
		ID:               "sec-" + tipoECF,
		EmpresaID:        empresaIDTest,
		TipoECF:          tipoECF,
		Desde:            1,
		Hasta:            100,
		Proximo:          1,
		FechaVencimiento: time.Now().AddDate(1, 0, 0),
		Activa:           true,
	}
}
