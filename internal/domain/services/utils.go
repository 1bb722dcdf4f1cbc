package services

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gosimple/slug"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/entities"
)

// listQuery converts list filters into query parameters, omitting zero values
func listQuery(p entities.ListParams) map[string]string {
	q := make(map[string]string)
	if p.Page > 0 {
		q["page"] = strconv.Itoa(p.Page)
	}
	if p.Limit > 0 {
		q["limit"] = strconv.Itoa(p.Limit)
	}
	if s := strings.TrimSpace(p.Search); s != "" {
		q["search"] = s
	}
	if p.Status != "" {
		q["status"] = p.Status
	}
	if p.Sort != "" {
		q["sort"] = p.Sort
	}
	return q
}

// ensureSlug returns the given slug, or one derived from name when empty
func ensureSlug(given, name string) string {
	if s := strings.TrimSpace(given); s != "" {
		return slug.Make(s)
	}
	return slug.Make(name)
}

// resourcePath joins a collection path and an escaped ID: /brands/{id}
func resourcePath(collection, id string, suffix ...string) string {
	parts := append([]string{collection, url.PathEscape(id)}, suffix...)
	return strings.Join(parts, "/")
}
