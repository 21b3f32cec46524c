package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vitrine/catalog"
	"vitrine/controllers"
	"vitrine/media"
	"vitrine/memstore"
	"vitrine/models"
	"vitrine/utils"
	"vitrine/views"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const adminPassword = "admin123"

type testEnv struct {
	app   *fiber.App
	store *memstore.Store
	admin models.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	s := memstore.New()
	return newTestEnvWith(t, s, s)
}

func newTestEnvWith(t *testing.T, s *memstore.Store, store controllers.Store) *testEnv {
	t.Helper()
	hash, err := utils.HashPassword(adminPassword)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	admin, err := s.Seed(context.Background(), "admin@vitrine.test", hash)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	storage, err := media.NewLocal(t.TempDir(), "/static/uploads")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	order := catalog.OrderOptions{}
	h := controllers.New(store, catalog.NewHolder(store, time.Minute), storage, order)
	app := fiber.New(fiber.Config{
		Views:        views.Engine(order),
		ErrorHandler: controllers.ErrorHandler,
	})
	RegisterRoutes(app, h)
	return &testEnv{app: app, store: s, admin: admin}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	token, err := utils.GenerateJWTToken(e.admin.ID, e.admin.Role)
	if err != nil {
		t.Fatalf("GenerateJWTToken: %v", err)
	}
	return token
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected status %d, got %d: %s", want, resp.StatusCode, b)
	}
}

func TestListProductsFiltersAndChips(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, "GET", "/api/products?q=phone", "", nil)
	expectStatus(t, resp, fiber.StatusOK)
	var list models.ProductsListResp
	decode(t, resp, &list)
	if list.Total != 1 || list.Items[0].Name != "iPhone 15" {
		t.Fatalf("unexpected search result: %+v", list)
	}
	if list.Categories[0] != catalog.AllCategories || len(list.Categories) != 4 {
		t.Fatalf("unexpected chips: %v", list.Categories)
	}

	resp = e.do(t, "GET", "/api/products?category=Mode", "", nil)
	decode(t, resp, &list)
	if list.Total != 1 || list.Items[0].Category != "Mode" {
		t.Fatalf("unexpected category result: %+v", list)
	}

	resp = e.do(t, "GET", "/api/products", "", nil)
	decode(t, resp, &list)
	if list.Total != 3 || list.Items[0].Name != "iPhone 15" {
		t.Fatalf("expected all products newest first: %+v", list)
	}
}

func TestDerivedListsAndShops(t *testing.T) {
	e := newTestEnv(t)

	var products []models.ProductView
	decode(t, e.do(t, "GET", "/api/products/new", "", nil), &products)
	if len(products) != 1 || !products[0].IsNew {
		t.Fatalf("unexpected new products: %+v", products)
	}
	decode(t, e.do(t, "GET", "/api/products/featured", "", nil), &products)
	if len(products) != 2 {
		t.Fatalf("unexpected featured products: %+v", products)
	}

	var shops []models.Shop
	decode(t, e.do(t, "GET", "/api/shops", "", nil), &shops)
	if len(shops) != 1 || shops[0].Name != "Boutique Vitrine" {
		t.Fatalf("unexpected shops: %+v", shops)
	}

	var slides []map[string]interface{}
	decode(t, e.do(t, "GET", "/api/hero-slider", "", nil), &slides)
	if len(slides) != 2 {
		t.Fatalf("unexpected slides: %+v", slides)
	}
}

func TestProductByIDAndOrderRedirect(t *testing.T) {
	e := newTestEnv(t)
	var list models.ProductsListResp
	decode(t, e.do(t, "GET", "/api/products?q=T-shirt", "", nil), &list)
	id := list.Items[0].ID.String()

	var p models.ProductView
	resp := e.do(t, "GET", "/api/products/"+id, "", nil)
	expectStatus(t, resp, fiber.StatusOK)
	decode(t, resp, &p)
	if p.Shop == nil || len(p.Details) != 2 {
		t.Fatalf("unexpected product: %+v", p)
	}

	resp = e.do(t, "GET", "/api/products/"+id+"/order?source=detail", "", nil)
	expectStatus(t, resp, fiber.StatusFound)
	loc := resp.Header.Get("Location")
	if !strings.HasPrefix(loc, "https://wa.me/22967676767?text=Bonjour") {
		t.Fatalf("unexpected redirect: %s", loc)
	}

	expectStatus(t, e.do(t, "GET", "/api/products/not-a-uuid", "", nil), fiber.StatusNotFound)
	expectStatus(t, e.do(t, "GET", "/api/products/"+uuid.NewString(), "", nil), fiber.StatusNotFound)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	e := newTestEnv(t)

	expectStatus(t, e.do(t, "GET", "/api/admin/stats", "", nil), fiber.StatusUnauthorized)
	expectStatus(t, e.do(t, "GET", "/api/admin/stats", "garbage", nil), fiber.StatusUnauthorized)

	userToken, _ := utils.GenerateJWTToken(uuid.New(), models.RoleUser)
	expectStatus(t, e.do(t, "GET", "/api/admin/stats", userToken, nil), fiber.StatusForbidden)

	resp := e.do(t, "GET", "/api/admin/stats", e.adminToken(t), nil)
	expectStatus(t, resp, fiber.StatusOK)
	var stats models.DashboardStats
	decode(t, resp, &stats)
	if stats.TotalProducts != 3 || stats.TotalStock != 45 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestAdminCatalogCarriesOwnerCategories(t *testing.T) {
	e := newTestEnv(t)

	var c catalog.Catalog
	decode(t, e.do(t, "GET", "/api/admin/catalog", e.adminToken(t), nil), &c)
	if len(c.Products) != 3 || len(c.Categories) != 3 || c.Categories[0].Name != "Gaming" {
		t.Fatalf("unexpected admin catalog: %d products, %+v", len(c.Products), c.Categories)
	}
}

func TestCreateProductInvalidatesCatalog(t *testing.T) {
	e := newTestEnv(t)
	token := e.adminToken(t)

	var cats []models.Category
	decode(t, e.do(t, "GET", "/api/admin/categories", token, nil), &cats)

	// warm the cache first
	expectStatus(t, e.do(t, "GET", "/api/products", "", nil), fiber.StatusOK)

	resp := e.do(t, "POST", "/api/admin/products", token, models.CreateProductReq{
		Name:        "Montre connectée",
		Description: "Suivi d'activité",
		Price:       25000,
		CategoryID:  &cats[0].ID,
		Images:      []string{"https://cdn.test/montre.jpg"},
		Details:     []string{"Étanche", ""},
	})
	expectStatus(t, resp, fiber.StatusCreated)

	var list models.ProductsListResp
	decode(t, e.do(t, "GET", "/api/products?q=montre", "", nil), &list)
	if list.Total != 1 {
		t.Fatalf("new product not visible after write: %+v", list)
	}
	p := list.Items[0]
	if p.Shop == nil || p.Shop.Name != "Boutique Vitrine" || len(p.Details) != 1 {
		t.Fatalf("unexpected created product: %+v", p)
	}
}

func TestCreateProductValidation(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, "POST", "/api/admin/products", e.adminToken(t), models.CreateProductReq{Price: -1})
	expectStatus(t, resp, fiber.StatusUnprocessableEntity)
	var body struct {
		Fields []string `json:"fields"`
	}
	decode(t, resp, &body)
	if strings.Join(body.Fields, ",") != "name,description,category_id,price" {
		t.Fatalf("unexpected fields: %v", body.Fields)
	}

	rows, _ := e.store.ProductRows(context.Background())
	if len(rows) != 3 {
		t.Fatal("nothing should be written when validation fails")
	}
}

// imagelessStore writes the product row but fails the images step.
type imagelessStore struct {
	*memstore.Store
}

func (s imagelessStore) CreateProduct(ctx context.Context, shopID *uuid.UUID, req models.CreateProductReq) (uuid.UUID, error) {
	req.Images, req.Details = nil, nil
	id, err := s.Store.CreateProduct(ctx, shopID, req)
	if err != nil {
		return id, err
	}
	return id, &models.PartialWriteError{Step: "images", ProductID: id, Err: errors.New("disk full")}
}

func TestCreateProductPartialWrite(t *testing.T) {
	s := memstore.New()
	e := newTestEnvWith(t, s, imagelessStore{s})
	token := e.adminToken(t)
	var cats []models.Category
	decode(t, e.do(t, "GET", "/api/admin/categories", token, nil), &cats)

	resp := e.do(t, "POST", "/api/admin/products", token, models.CreateProductReq{
		Name: "Lampe", Description: "LED", CategoryID: &cats[0].ID,
		Images: []string{"lampe.jpg"},
	})
	expectStatus(t, resp, fiber.StatusInternalServerError)
	var body map[string]interface{}
	decode(t, resp, &body)
	if body["step"] != "images" || body["product_id"] == nil {
		t.Fatalf("expected failed step in body, got %v", body)
	}

	var list models.ProductsListResp
	decode(t, e.do(t, "GET", "/api/products?q=Lampe", "", nil), &list)
	if list.Total != 1 || len(list.Items[0].Images) != 0 {
		t.Fatalf("partially written product should be listed without images: %+v", list)
	}
}

func TestCreateProductRejectsBlankImageURL(t *testing.T) {
	e := newTestEnv(t)
	token := e.adminToken(t)
	var cats []models.Category
	decode(t, e.do(t, "GET", "/api/admin/categories", token, nil), &cats)

	resp := e.do(t, "POST", "/api/admin/products", token, models.CreateProductReq{
		Name: "Lampe", Description: "LED", CategoryID: &cats[0].ID,
		Images: []string{"lampe.jpg", " "},
	})
	expectStatus(t, resp, fiber.StatusUnprocessableEntity)
	var body struct {
		Fields []string `json:"fields"`
	}
	decode(t, resp, &body)
	if len(body.Fields) != 1 || body.Fields[0] != "images" {
		t.Fatalf("expected images field, got %v", body.Fields)
	}

	var list models.ProductsListResp
	decode(t, e.do(t, "GET", "/api/products?q=Lampe", "", nil), &list)
	if list.Total != 0 {
		t.Fatalf("rejected product should not be written: %+v", list)
	}
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	e := newTestEnv(t)
	token := e.adminToken(t)

	var list models.ProductsListResp
	decode(t, e.do(t, "GET", "/api/products?q=Casque", "", nil), &list)
	p := list.Items[0]
	var cats []models.Category
	decode(t, e.do(t, "GET", "/api/admin/categories", token, nil), &cats)

	resp := e.do(t, "PUT", "/api/admin/products/"+p.ID.String(), token, map[string]interface{}{
		"name": "Casque Gaming Pro X", "description": p.Description, "price": 50000,
		"category_id": cats[0].ID, "stock_quantity": 3,
	})
	expectStatus(t, resp, fiber.StatusOK)

	var got models.ProductView
	decode(t, e.do(t, "GET", "/api/products/"+p.ID.String(), "", nil), &got)
	if got.Name != "Casque Gaming Pro X" || !got.InStock() || len(got.Images) != 1 {
		t.Fatalf("unexpected updated product: %+v", got)
	}

	expectStatus(t, e.do(t, "DELETE", "/api/admin/products/"+p.ID.String(), token, nil), fiber.StatusOK)
	expectStatus(t, e.do(t, "GET", "/api/products/"+p.ID.String(), "", nil), fiber.StatusNotFound)
	expectStatus(t, e.do(t, "DELETE", "/api/admin/products/"+p.ID.String(), token, nil), fiber.StatusNotFound)
}

func TestCategoryAndShopAdmin(t *testing.T) {
	e := newTestEnv(t)
	token := e.adminToken(t)

	expectStatus(t, e.do(t, "POST", "/api/admin/categories", token, models.CategoryReq{}), fiber.StatusUnprocessableEntity)

	resp := e.do(t, "POST", "/api/admin/categories", token, models.CategoryReq{Name: "Maison"})
	expectStatus(t, resp, fiber.StatusCreated)
	var cat models.Category
	decode(t, resp, &cat)

	resp = e.do(t, "PUT", "/api/admin/categories/"+cat.ID.String(), token, models.CategoryReq{Name: "Maison & Déco"})
	expectStatus(t, resp, fiber.StatusOK)

	// a category owned by someone else
	other, _ := e.store.CreateCategory(context.Background(), uuid.New(), models.CategoryReq{Name: "Autre"})
	expectStatus(t, e.do(t, "DELETE", "/api/admin/categories/"+other.ID.String(), token, nil), fiber.StatusForbidden)
	expectStatus(t, e.do(t, "DELETE", "/api/admin/categories/"+cat.ID.String(), token, nil), fiber.StatusOK)

	expectStatus(t, e.do(t, "POST", "/api/admin/shop", token, models.ShopReq{Name: "Second"}), fiber.StatusConflict)

	resp = e.do(t, "PUT", "/api/admin/shop/whatsapp", token, models.WhatsappReq{WhatsappNumber: "22990909090"})
	expectStatus(t, resp, fiber.StatusOK)

	var list models.ProductsListResp
	decode(t, e.do(t, "GET", "/api/products?q=iPhone", "", nil), &list)
	if list.Items[0].Shop.WhatsappNumber != "22990909090" {
		t.Fatalf("shop change not reflected in catalog: %+v", list.Items[0].Shop)
	}
	resp = e.do(t, "GET", "/api/products/"+list.Items[0].ID.String()+"/order", "", nil)
	if loc := resp.Header.Get("Location"); !strings.HasPrefix(loc, "https://wa.me/22990909090?text=Salut") {
		t.Fatalf("unexpected redirect: %s", loc)
	}

	expectStatus(t, e.do(t, "DELETE", "/api/admin/shop", token, nil), fiber.StatusOK)
	expectStatus(t, e.do(t, "GET", "/api/admin/shop", token, nil), fiber.StatusNotFound)

	list = models.ProductsListResp{}
	decode(t, e.do(t, "GET", "/api/products?q=iPhone", "", nil), &list)
	if list.Items[0].Shop != nil {
		t.Fatalf("product should lose its shop: %+v", list.Items[0].Shop)
	}
}

func TestAuthFlow(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, "POST", "/api/auth/register", "", models.User_input{Email: "ama@example.com", Password: "motdepasse"})
	expectStatus(t, resp, fiber.StatusCreated)
	expectStatus(t, e.do(t, "POST", "/api/auth/register", "", models.User_input{Email: "ama@example.com", Password: "motdepasse"}), fiber.StatusConflict)
	expectStatus(t, e.do(t, "POST", "/api/auth/register", "", models.User_input{Email: "nope", Password: "x"}), fiber.StatusUnprocessableEntity)

	expectStatus(t, e.do(t, "POST", "/api/auth/login", "", models.User_input{Email: "ama@example.com", Password: "wrong"}), fiber.StatusUnauthorized)

	resp = e.do(t, "POST", "/api/auth/login", "", models.User_input{Email: "ama@example.com", Password: "motdepasse"})
	expectStatus(t, resp, fiber.StatusOK)
	var login struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decode(t, resp, &login)
	if login.Token == "" || login.User.Role != models.RoleUser {
		t.Fatalf("unexpected login: %+v", login)
	}

	resp = e.do(t, "GET", "/api/auth/me", login.Token, nil)
	expectStatus(t, resp, fiber.StatusOK)

	expectStatus(t, e.do(t, "GET", "/api/admin/catalog", login.Token, nil), fiber.StatusForbidden)
}

func TestImageUploadAndDelete(t *testing.T) {
	e := newTestEnv(t)
	token := e.adminToken(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range []string{"a.jpg", "b.png"} {
		part, _ := w.CreateFormFile("images", name)
		part.Write([]byte("image " + name))
	}
	w.Close()

	req := httptest.NewRequest("POST", "/api/admin/images", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	expectStatus(t, resp, fiber.StatusCreated)

	var body struct {
		Images []media.Stored `json:"images"`
	}
	decode(t, resp, &body)
	if len(body.Images) != 2 || !strings.HasSuffix(body.Images[1].URL, ".png") {
		t.Fatalf("unexpected upload result: %+v", body)
	}

	var library struct {
		Images []media.Stored `json:"images"`
	}
	decode(t, e.do(t, "GET", "/api/admin/images", token, nil), &library)
	if len(library.Images) != 2 {
		t.Fatalf("expected both uploads in the library, got %+v", library.Images)
	}

	expectStatus(t, e.do(t, "DELETE", "/api/admin/images/"+body.Images[0].PublicID, token, nil), fiber.StatusOK)
	expectStatus(t, e.do(t, "DELETE", "/api/admin/images/"+body.Images[0].PublicID, token, nil), fiber.StatusNotFound)

	resp = e.do(t, "DELETE", "/api/admin/images", token, nil)
	expectStatus(t, resp, fiber.StatusOK)
	var cleared struct {
		Deleted int `json:"deleted"`
	}
	decode(t, resp, &cleared)
	if cleared.Deleted != 1 {
		t.Fatalf("expected the remaining image to be cleared, got %d", cleared.Deleted)
	}
	decode(t, e.do(t, "GET", "/api/admin/images", token, nil), &library)
	if len(library.Images) != 0 {
		t.Fatalf("library should be empty, got %+v", library.Images)
	}

	userToken, _ := utils.GenerateJWTToken(uuid.New(), models.RoleUser)
	expectStatus(t, e.do(t, "DELETE", "/api/admin/images", userToken, nil), fiber.StatusForbidden)
}

func TestPages(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, "GET", "/?q=phone", "", nil)
	expectStatus(t, resp, fiber.StatusOK)
	html, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(html, []byte("iPhone 15")) || bytes.Contains(html, []byte("T-shirt coton bio</h3>")) {
		t.Fatalf("unexpected home page:\n%s", html)
	}

	resp = e.do(t, "GET", "/product/"+uuid.NewString(), "", nil)
	expectStatus(t, resp, fiber.StatusNotFound)
	html, _ = io.ReadAll(resp.Body)
	if !bytes.Contains(html, []byte("Produit introuvable")) {
		t.Fatalf("unexpected 404 page:\n%s", html)
	}
}

type failingStore struct {
	*memstore.Store
}

func (failingStore) ProductRows(ctx context.Context) ([]catalog.ProductRow, error) {
	return nil, errors.New("connection reset")
}

func TestFetchFailure(t *testing.T) {
	s := memstore.New()
	e := newTestEnvWith(t, s, failingStore{s})

	resp := e.do(t, "GET", "/api/products", "", nil)
	expectStatus(t, resp, fiber.StatusBadGateway)

	resp = e.do(t, "GET", "/", "", nil)
	expectStatus(t, resp, fiber.StatusBadGateway)
	html, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(html, []byte("connection reset")) {
		t.Fatalf("error page should carry the failure:\n%s", html)
	}
}
