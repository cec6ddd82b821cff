// Package normalize converts between the stored shapes of species records,
// including the legacy Spanish and camelCase schemas, and domain.Species.
package normalize

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Key chains are tried in order; the first key holding a non-nil value wins.
// The canonical key written by ToStorage comes first. Dotted keys descend
// into nested objects.
var (
	keysScientificName = []string{"scientific_name", "scientificName", "nombre_cientifico"}
	keysCommonName     = []string{"common_name", "commonName", "nombre_vulgar", "nombre_comun"}
	keysFamily         = []string{"family", "familia"}
	keysStatus         = []string{"conservation_status", "conservationStatus", "estado_conservacion"}
	keysEcosystem      = []string{"ecosystem", "ecosistema"}
	keysHabitat        = []string{"habitat"}
	keysDescription    = []string{"description", "descripcion"}
	keysLatitude       = []string{"coordinates.latitude", "coordenadas.latitud", "latitude", "latitud", "lat"}
	keysLongitude      = []string{"coordinates.longitude", "coordenadas.longitud", "longitude", "longitud", "lng"}
	keysRegisteredBy   = []string{"registered_by", "registeredBy", "registrado_por"}
	keysActive         = []string{"active", "activo"}
	keysRegisteredAt   = []string{"registered_at", "registeredAt", "created_at", "createdAt", "fecha_registro"}
	keysUpdatedAt      = []string{"updated_at", "updatedAt", "fecha_actualizacion"}
	keysObservedAt     = []string{"observation_date", "observedAt", "observationDate", "fecha_observacion"}
	keysImages         = []string{"images", "imagenes"}
	keysComments       = []string{"comments", "comentarios"}
	keysCommentCount   = []string{"comment_count", "commentCount", "total_comentarios"}

	keysImageID        = []string{"id"}
	keysImageURL       = []string{"url"}
	keysImageName      = []string{"name", "nombre"}
	keysImageSize      = []string{"size", "tamano"}
	keysImageMimeType  = []string{"mime_type", "mimeType", "tipo"}
	keysImageCreatedAt = []string{"created_at", "createdAt", "fecha"}

	keysCommentID     = []string{"id"}
	keysCommentText   = []string{"text", "texto", "comment", "comentario"}
	keysCommentAuthor = []string{"author", "autor"}
	keysCommentDate   = []string{"date", "fecha", "created_at", "createdAt"}
)

// timeLayouts lists the formats older records were written with.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Lookup returns the first non-nil value found under keys.
func Lookup(raw map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := lookupPath(raw, key); ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func lookupPath(raw map[string]any, key string) (any, bool) {
	cur := raw
	parts := strings.Split(key, ".")
	for i, part := range parts {
		v, ok := cur[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		next, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

func stringAt(raw map[string]any, keys ...string) string {
	v, ok := Lookup(raw, keys...)
	if !ok {
		return ""
	}
	return toString(v)
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func floatAt(raw map[string]any, keys ...string) float64 {
	v, ok := Lookup(raw, keys...)
	if !ok {
		return 0
	}
	f, ok := toFloat(v)
	if !ok {
		return 0
	}
	return f
}

// toFloat accepts JSON numbers, Go numeric types and numeric strings.
func toFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func intAt(raw map[string]any, keys ...string) (int64, bool) {
	v, ok := Lookup(raw, keys...)
	if !ok {
		return 0, false
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

func boolAt(raw map[string]any, def bool, keys ...string) bool {
	v, ok := Lookup(raw, keys...)
	if !ok {
		return def
	}
	b, ok := toBool(v)
	if !ok {
		return def
	}
	return b
}

func toBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false, false
		}
		return b, true
	default:
		if f, ok := toFloat(v); ok {
			return f != 0, true
		}
		return false, false
	}
}

func timeAt(raw map[string]any, keys ...string) time.Time {
	v, ok := Lookup(raw, keys...)
	if !ok {
		return time.Time{}
	}
	t, _ := ParseTime(v)
	return t
}

// ParseTime accepts time.Time values, the string layouts in timeLayouts and
// Unix timestamps in seconds or milliseconds. Results are in UTC.
func ParseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t.UTC(), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed.UTC(), true
			}
		}
		return time.Time{}, false
	default:
		f, ok := toFloat(v)
		if !ok || f <= 0 {
			return time.Time{}, false
		}
		// Realtime Database server timestamps are in milliseconds.
		if f > 1e11 {
			return time.UnixMilli(int64(f)).UTC(), true
		}
		return time.Unix(int64(f), 0).UTC(), true
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

type entry struct {
	key   string
	value any
}

// entries flattens a list, or an object keyed by push ids, into storage order.
func entries(v any) []entry {
	switch t := v.(type) {
	case []any:
		out := make([]entry, 0, len(t))
		for _, item := range t {
			if item != nil {
				out = append(out, entry{value: item})
			}
		}
		return out
	case []map[string]any:
		out := make([]entry, 0, len(t))
		for _, item := range t {
			out = append(out, entry{value: item})
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]entry, 0, len(keys))
		for _, k := range keys {
			if t[k] != nil {
				out = append(out, entry{key: k, value: t[k]})
			}
		}
		return out
	default:
		return nil
	}
}

// String reads a trimmed string with the same lenient rules used for species.
// Other record types stored next to species use it for their own key chains.
func String(raw map[string]any, keys ...string) string { return stringAt(raw, keys...) }

func Bool(raw map[string]any, def bool, keys ...string) bool { return boolAt(raw, def, keys...) }

func Time(raw map[string]any, keys ...string) time.Time { return timeAt(raw, keys...) }

// FormatTime is the storage encoding for timestamps; the zero time is "".
func FormatTime(t time.Time) string { return formatTime(t) }
