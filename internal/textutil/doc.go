// Package textutil sanitizes backend-supplied names before they are used as
// local file names for client-side media handles.
package textutil
