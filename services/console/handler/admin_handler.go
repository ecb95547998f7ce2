package handler

import (
	"net/http"

	"auction-console/internal/models"
	"auction-console/internal/views"
	"auction-console/services/console/helpers"
	"auction-console/utils"

	"github.com/gin-gonic/gin"
)

var adminNotices = map[string]string{
	"created": "Product created.",
	"updated": "Product updated.",
	"deleted": "Product deleted.",
}

func adminPage(view *views.ProductAdminView, extra gin.H) gin.H {
	mode, editingID := view.Mode()
	data := gin.H{
		"Title":     "Products",
		"Mode":      string(mode),
		"EditingID": editingID,
		"Form":      view.Form(),
		"Products":  view.Products(),
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// loadAdminView fetches the product list. It answers the request itself and
// returns nil on failure.
func (h *ConsoleHandler) loadAdminView(c *gin.Context, handlerName string) *views.ProductAdminView {
	view := views.NewProductAdminView(h.api(c))
	if err := view.Load(c.Request.Context()); err != nil {
		if h.expireIfUnauthorized(c, handlerName, err) {
			return nil
		}
		status, message := helpers.MapErrorToHTTP(err)
		utils.Warn(handlerName+": failed to load products", map[string]any{"error": err.Error()})
		utils.HTMLPage(c, status, "admin.html", adminPage(view, gin.H{"Error": message}))
		return nil
	}
	return view
}

// ProductsHandler handles GET /admin/products
func (h *ConsoleHandler) ProductsHandler(c *gin.Context) {
	view := h.loadAdminView(c, "ProductsHandler")
	if view == nil {
		return
	}
	utils.HTMLPage(c, http.StatusOK, "admin.html", adminPage(view, gin.H{"Notice": adminNotices[c.Query("notice")]}))
}

// NewProductHandler handles GET /admin/products/new
func (h *ConsoleHandler) NewProductHandler(c *gin.Context) {
	view := h.loadAdminView(c, "NewProductHandler")
	if view == nil {
		return
	}
	view.BeginCreate()
	utils.HTMLPage(c, http.StatusOK, "admin.html", adminPage(view, nil))
}

// EditProductHandler handles GET /admin/products/:id/edit
func (h *ConsoleHandler) EditProductHandler(c *gin.Context) {
	view := h.loadAdminView(c, "EditProductHandler")
	if view == nil {
		return
	}
	if err := view.BeginEdit(c.Param("id")); err != nil {
		h.NotFoundHandler(c)
		return
	}
	utils.HTMLPage(c, http.StatusOK, "admin.html", adminPage(view, nil))
}

// CreateProductHandler handles POST /admin/products
func (h *ConsoleHandler) CreateProductHandler(c *gin.Context) {
	view := h.loadAdminView(c, "CreateProductHandler")
	if view == nil {
		return
	}
	view.BeginCreate()
	h.submitProduct(c, view, "CreateProductHandler", "created")
}

// UpdateProductHandler handles POST /admin/products/:id
func (h *ConsoleHandler) UpdateProductHandler(c *gin.Context) {
	view := h.loadAdminView(c, "UpdateProductHandler")
	if view == nil {
		return
	}
	if err := view.BeginEdit(c.Param("id")); err != nil {
		h.NotFoundHandler(c)
		return
	}
	h.submitProduct(c, view, "UpdateProductHandler", "updated")
}

func (h *ConsoleHandler) submitProduct(c *gin.Context, view *views.ProductAdminView, handlerName, notice string) {
	var form helpers.ProductForm
	if err := c.ShouldBind(&form); err != nil {
		helpers.LogBindError(handlerName, err)
		utils.HTMLPage(c, http.StatusBadRequest, "admin.html", adminPage(view, gin.H{"Error": helpers.BindErrorMessage}))
		return
	}

	input, err := form.ToInput(h.loc)
	if err == nil {
		err = view.Submit(c.Request.Context(), input)
	}
	if err != nil {
		if h.expireIfUnauthorized(c, handlerName, err) {
			return
		}
		status, message := helpers.MapErrorToHTTP(err)
		utils.Warn(handlerName+": product rejected", map[string]any{"name": form.Name, "error": err.Error()})
		// keep what the user typed
		utils.HTMLPage(c, status, "admin.html", adminPage(view, gin.H{"Error": message, "Form": input}))
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin/products?notice="+notice)
	helpers.LogSuccess(handlerName, "product saved", map[string]any{"name": input.Name, "username": username(c)})
}

// ConfirmDeleteHandler handles GET /admin/products/:id/delete
func (h *ConsoleHandler) ConfirmDeleteHandler(c *gin.Context) {
	view := h.loadAdminView(c, "ConfirmDeleteHandler")
	if view == nil {
		return
	}
	product, ok := findProduct(view.Products(), c.Param("id"))
	if !ok {
		h.NotFoundHandler(c)
		return
	}
	utils.HTMLPage(c, http.StatusOK, "confirm_delete.html", gin.H{"Title": "Delete product", "Product": product})
}

// DeleteProductHandler handles POST /admin/products/:id/delete
func (h *ConsoleHandler) DeleteProductHandler(c *gin.Context) {
	var form helpers.DeleteForm
	if err := c.ShouldBind(&form); err != nil {
		helpers.LogBindError("DeleteProductHandler", err)
	}

	productID := c.Param("id")
	view := views.NewProductAdminView(h.api(c))
	if err := view.Delete(c.Request.Context(), productID, form.Confirmed); err != nil {
		if h.expireIfUnauthorized(c, "DeleteProductHandler", err) {
			return
		}
		status, message := helpers.MapErrorToHTTP(err)
		utils.Warn("DeleteProductHandler: delete refused", map[string]any{"product_id": productID, "error": err.Error()})
		if loadErr := view.Load(c.Request.Context()); loadErr != nil {
			utils.Warn("DeleteProductHandler: failed to reload products", map[string]any{"error": loadErr.Error()})
		}
		utils.HTMLPage(c, status, "admin.html", adminPage(view, gin.H{"Error": message}))
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin/products?notice=deleted")
	helpers.LogSuccess("DeleteProductHandler", "product deleted", map[string]any{"product_id": productID, "username": username(c)})
}

func findProduct(products []models.Item, id string) (models.Item, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Item{}, false
}
