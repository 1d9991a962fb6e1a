// Package http exposes the admin and storefront endpoints of the CMS on a
// standard ServeMux.
//
// Admin routes mount under the configured base path (default /admin):
//   - Modules: /modules, /modules/{module_id}/instance, /modules/{module_id}/instance/{instance_id},
//     /modules/{module_id}/instance/{instance_id}/delete
//   - Menus: /menus/{instance_id}/subcategories
//   - Layouts: /layouts/{owner_type}/{owner_id}
//   - Session: /flashes, /cache/invalidate
//
// Admin writes are form-encoded; successful saves record a flash message and
// redirect to the edit view. Storefront routes return JSON view models:
//   - /layouts/{owner_type}/{owner_id}
//   - /menus/{location}, /menus/{location}/breadcrumbs?url=
package http
