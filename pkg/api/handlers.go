package api

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jokva/dlisio/pkg/codec"
	"github.com/jokva/dlisio/pkg/dlis"
	"github.com/jokva/dlisio/pkg/dliserr"
	"github.com/jokva/dlisio/pkg/objects"
)

// Server serves read-only inspection of one open DLIS stream. The stream's
// read cursor is not safe for concurrent use, so record access serializes
// on a mutex.
type Server struct {
	stream  *dlis.Stream
	path    string
	metrics *Metrics
	log     *zap.SugaredLogger
	mu      sync.Mutex
}

// NewServer wraps an open stream. The server does not own the stream; the
// caller closes it after shutdown.
func NewServer(stream *dlis.Stream, path string, log *zap.Logger, metrics *Metrics) *Server {
	return &Server{
		stream:  stream,
		path:    path,
		metrics: metrics,
		log:     log.Sugar(),
	}
}

func (s *Server) at(i int) (*dlis.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	rec, err := s.stream.At(i)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordRead(time.Since(start))
	return rec, nil
}

func (s *Server) handleLabel(w http.ResponseWriter, r *http.Request) {
	sul := s.stream.StorageLabel()
	sendSuccess(w, LabelResponse{
		Sequence: sul.Sequence,
		Version:  sul.Version(),
		Layout:   sul.Layout.String(),
		MaxLen:   sul.MaxLen,
		ID:       sul.ID,
	})
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	resp := RecordsResponse{
		Path:   s.path,
		Count:  s.stream.Len(),
		ByType: map[uint8]int{},
	}

	for i := 0; i < s.stream.Len(); i++ {
		rec, err := s.at(i)
		if err != nil {
			sendDecodeError(w, err)
			return
		}
		resp.ByType[rec.Type]++
		if rec.Explicit() {
			resp.Explicit++
		}
		if rec.Encrypted() {
			resp.Encrypted++
		}
		if !rec.Consistent {
			resp.Inconsistent++
		}
	}
	sendSuccess(w, resp)
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	i, ok := s.recordIndex(w, r)
	if !ok {
		return
	}

	rec, err := s.at(i)
	if err != nil {
		sendDecodeError(w, err)
		return
	}

	sendSuccess(w, RecordResponse{
		Index:      i,
		Type:       rec.Type,
		Explicit:   rec.Explicit(),
		Encrypted:  rec.Encrypted(),
		Consistent: rec.Consistent,
		Length:     len(rec.Data),
	})
}

func (s *Server) handleRecordObjects(w http.ResponseWriter, r *http.Request) {
	i, ok := s.recordIndex(w, r)
	if !ok {
		return
	}

	rec, err := s.at(i)
	if err != nil {
		sendDecodeError(w, err)
		return
	}
	if rec.Encrypted() {
		sendError(w, "record is encrypted", http.StatusConflict)
		return
	}
	if !rec.Explicit() {
		sendError(w, "record is not explicitly formatted", http.StatusConflict)
		return
	}

	sets, err := s.stream.ParseObjects([]*dlis.Record{rec})
	if err != nil {
		sendDecodeError(w, err)
		return
	}
	s.metrics.RecordObjectSets(len(sets))

	out := make([]ObjectSetResponse, 0, len(sets))
	for _, set := range sets {
		out = append(out, renderObjectSet(set))
	}
	sendSuccess(w, out)
}

func (s *Server) recordIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		sendError(w, "record index must be an integer", http.StatusBadRequest)
		return 0, false
	}
	if i < 0 || i >= s.stream.Len() {
		sendError(w, "record index out of range", http.StatusNotFound)
		return 0, false
	}
	return i, true
}

// sendDecodeError maps the decode-error taxonomy onto HTTP statuses: the
// file is what it is, so most failures are 422, not 500.
func sendDecodeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, dliserr.UnexpectedValue),
		errors.Is(err, dliserr.Inconsistent),
		errors.Is(err, dliserr.Truncated),
		errors.Is(err, dliserr.NonContiguous):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, dliserr.NotImplemented):
		status = http.StatusNotImplemented
	}
	sendError(w, err.Error(), status)
}

func renderObjectSet(set *objects.ObjectSet) ObjectSetResponse {
	resp := ObjectSetResponse{
		Type:         string(set.Type),
		Name:         string(set.Name),
		Inconsistent: set.Inconsistent,
		Objects:      make([]ObjectResponse, 0, len(set.Objects)),
	}
	for _, obj := range set.Objects {
		o := ObjectResponse{
			Name:       renderObName(obj.Name),
			Attributes: make([]AttributeResponse, 0, len(obj.Attributes)),
		}
		for _, attr := range obj.Attributes {
			o.Attributes = append(o.Attributes, renderAttribute(attr))
		}
		resp.Objects = append(resp.Objects, o)
	}
	return resp
}

func renderObName(n codec.ObName) ObNameResponse {
	return ObNameResponse{
		Origin: uint32(n.Origin),
		Copy:   n.Copy,
		ID:     codec.DecodeText(string(n.ID)),
	}
}

func renderAttribute(attr objects.Attribute) AttributeResponse {
	out := AttributeResponse{
		Label: codec.DecodeText(string(attr.Label)),
		Count: attr.Count,
		RepC:  attr.RepC.String(),
		Units: codec.DecodeText(string(attr.Units)),
	}
	for _, v := range attr.Value {
		out.Values = append(out.Values, renderValue(v))
	}
	return out
}

// renderValue flattens a codec value into something json.Marshal handles:
// complex numbers split into parts, names become objects, strings pass
// through the degree-sign recovery.
func renderValue(v codec.Value) interface{} {
	switch payload := v.V.(type) {
	case complex64:
		return map[string]float64{
			"real": float64(real(payload)),
			"imag": float64(imag(payload)),
		}
	case complex128:
		return map[string]float64{"real": real(payload), "imag": imag(payload)}
	case codec.Ident:
		return codec.DecodeText(string(payload))
	case codec.Units:
		return codec.DecodeText(string(payload))
	case string:
		return codec.DecodeText(payload)
	case codec.DTime:
		return payload.String()
	case codec.ObName:
		return renderObName(payload)
	case codec.ObjRef:
		return map[string]interface{}{
			"type": string(payload.Type),
			"name": renderObName(payload.Name),
		}
	case codec.AttRef:
		return map[string]interface{}{
			"type":  string(payload.Type),
			"name":  renderObName(payload.Name),
			"label": string(payload.Label),
		}
	default:
		return payload
	}
}
