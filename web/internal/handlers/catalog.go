package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/auth"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/catalog"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/entities"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/services"
)

// categoryNode is the JSON form of a tree node
type categoryNode struct {
	*entities.Category
	Depth    int             `json:"depth"`
	Children []*categoryNode `json:"children"`
}

func toCategoryNodes(nodes []*catalog.Node) []*categoryNode {
	out := make([]*categoryNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &categoryNode{
			Category: n.Category,
			Depth:    n.Depth,
			Children: toCategoryNodes(n.Children),
		})
	}
	return out
}

// ListBrands handles GET /api/brands
func (h *Handler) ListBrands(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		page, err := api.Brands.List(r.Context(), listParams(r))
		if err != nil {
			return err
		}
		writePage(w, page)
		return nil
	})
}

// GetBrand handles GET /api/brands/{id}
func (h *Handler) GetBrand(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		brand, err := api.Brands.Get(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, brand)
		return nil
	})
}

// CreateBrand handles POST /api/brands
func (h *Handler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		var in services.BrandInput
		if err := decodeJSON(w, r, &in); err != nil {
			return err
		}
		brand, err := api.Brands.Create(r.Context(), in)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusCreated, brand)
		return nil
	})
}

// UpdateBrand handles PUT /api/brands/{id}
func (h *Handler) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		var in services.BrandInput
		if err := decodeJSON(w, r, &in); err != nil {
			return err
		}
		brand, err := api.Brands.Update(r.Context(), mux.Vars(r)["id"], in)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, brand)
		return nil
	})
}

// DeleteBrand handles DELETE /api/brands/{id}
func (h *Handler) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		if err := api.Brands.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, map[string]string{"deleted": mux.Vars(r)["id"]})
		return nil
	})
}

// ListCategories handles GET /api/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		page, err := api.Categories.List(r.Context(), listParams(r))
		if err != nil {
			return err
		}
		writePage(w, page)
		return nil
	})
}

// CategoryTree handles GET /api/categories/tree
func (h *Handler) CategoryTree(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		tree, err := api.Categories.Tree(r.Context())
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, toCategoryNodes(tree.Roots))
		return nil
	})
}

// CategoryOptions handles GET /api/categories/options?exclude=ID.
// The excluded category and its subtree are left out so it cannot be moved under itself.
func (h *Handler) CategoryOptions(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		tree, err := api.Categories.Tree(r.Context())
		if err != nil {
			return err
		}
		options := tree.Flatten(catalog.FlattenOptions{
			Indent:  r.URL.Query().Get("indent"),
			Exclude: r.URL.Query().Get("exclude"),
		})
		writeJSON(w, http.StatusOK, options)
		return nil
	})
}

// GetCategory handles GET /api/categories/{id}, adding its breadcrumb
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		id := mux.Vars(r)["id"]
		tree, err := api.Categories.Tree(r.Context())
		if err != nil {
			return err
		}
		node := tree.Find(id)
		if node == nil {
			writeError(w, http.StatusNotFound, "category not found")
			return nil
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"category":   node.Category,
			"breadcrumb": tree.Breadcrumb(id),
			"children":   len(node.Children),
		})
		return nil
	})
}

// CreateCategory handles POST /api/categories
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		var in services.CategoryInput
		if err := decodeJSON(w, r, &in); err != nil {
			return err
		}
		category, err := api.Categories.Create(r.Context(), in)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusCreated, category)
		return nil
	})
}

// UpdateCategory handles PUT /api/categories/{id}.
// A new parent inside the category's own subtree is rejected.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		id := mux.Vars(r)["id"]
		var in services.CategoryInput
		if err := decodeJSON(w, r, &in); err != nil {
			return err
		}

		if in.ParentID != nil && *in.ParentID != "" {
			tree, err := api.Categories.Tree(r.Context())
			if err != nil {
				return err
			}
			if !validParent(tree, id, *in.ParentID) {
				writeError(w, http.StatusBadRequest, "a category cannot be moved under itself or its descendants")
				return nil
			}
		}

		category, err := api.Categories.Update(r.Context(), id, in)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, category)
		return nil
	})
}

func validParent(tree *catalog.Tree, id, parentID string) bool {
	for _, opt := range tree.Flatten(catalog.FlattenOptions{Exclude: id}) {
		if opt.Value == parentID {
			return true
		}
	}
	return false
}

// DeleteCategory handles DELETE /api/categories/{id}
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		if err := api.Categories.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, map[string]string{"deleted": mux.Vars(r)["id"]})
		return nil
	})
}

// ListProducts handles GET /api/products. Vendor accounts only see their own products.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		q := r.URL.Query()
		filter := services.ProductFilter{
			ListParams: listParams(r),
			BrandID:    q.Get("brandId"),
			CategoryID: q.Get("categoryId"),
			VendorID:   q.Get("vendorId"),
		}
		if user := currentUser(r); user != nil && user.Role == entities.RoleVendor {
			filter.VendorID = user.VendorID
		}

		page, err := api.Products.List(r.Context(), filter)
		if err != nil {
			return err
		}
		writePage(w, page)
		return nil
	})
}

// ownedProduct fetches a product and checks the user may manage its vendor's data
func ownedProduct(r *http.Request, api *requestAPI, id string) (*entities.Product, error) {
	product, err := api.Products.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if product.VendorID != "" {
		if err := auth.CanManageVendor(r.Context(), product.VendorID); err != nil {
			return nil, err
		}
	} else if err := auth.RequireSuperAdmin(r.Context()); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct handles GET /api/products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		product, err := ownedProduct(r, api, mux.Vars(r)["id"])
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"product":        product,
			"effectivePrice": product.EffectivePrice(),
		})
		return nil
	})
}

// CreateProduct handles POST /api/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		var in services.ProductInput
		if err := decodeJSON(w, r, &in); err != nil {
			return err
		}
		product, err := api.Products.Create(r.Context(), in)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusCreated, product)
		return nil
	})
}

// UpdateProduct handles PUT /api/products/{id}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		id := mux.Vars(r)["id"]
		var in services.ProductInput
		if err := decodeJSON(w, r, &in); err != nil {
			return err
		}
		if _, err := ownedProduct(r, api, id); err != nil {
			return err
		}
		product, err := api.Products.Update(r.Context(), id, in)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, product)
		return nil
	})
}

// SetProductStatus handles PUT /api/products/{id}/status
func (h *Handler) SetProductStatus(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		id := mux.Vars(r)["id"]
		var body struct {
			Status string `json:"status"`
		}
		if err := decodeJSON(w, r, &body); err != nil {
			return err
		}
		if _, err := ownedProduct(r, api, id); err != nil {
			return err
		}
		product, err := api.Products.SetStatus(r.Context(), id, body.Status)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, product)
		return nil
	})
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		id := mux.Vars(r)["id"]
		if _, err := ownedProduct(r, api, id); err != nil {
			return err
		}
		if err := api.Products.Delete(r.Context(), id); err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
		return nil
	})
}

// ListAttributes handles GET /api/attributes
func (h *Handler) ListAttributes(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		page, err := api.Attributes.List(r.Context(), listParams(r))
		if err != nil {
			return err
		}
		writePage(w, page)
		return nil
	})
}

// CreateAttribute handles POST /api/attributes
func (h *Handler) CreateAttribute(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		var in services.AttributeInput
		if err := decodeJSON(w, r, &in); err != nil {
			return err
		}
		attr, err := api.Attributes.Create(r.Context(), in)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusCreated, attr)
		return nil
	})
}

// UpdateAttribute handles PUT /api/attributes/{id}
func (h *Handler) UpdateAttribute(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		var in services.AttributeInput
		if err := decodeJSON(w, r, &in); err != nil {
			return err
		}
		attr, err := api.Attributes.Update(r.Context(), mux.Vars(r)["id"], in)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, attr)
		return nil
	})
}

// DeleteAttribute handles DELETE /api/attributes/{id}
func (h *Handler) DeleteAttribute(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		if err := api.Attributes.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, map[string]string{"deleted": mux.Vars(r)["id"]})
		return nil
	})
}
