package rpc

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/hugohenrick/chat-mobile/pkg/chat"
	"github.com/hugohenrick/chat-mobile/pkg/logger"
)

// Kind distingue consultas (GET) de mutações (POST)
type Kind int

const (
	KindQuery Kind = iota
	KindMutation
)

func (k Kind) method() string {
	if k == KindMutation {
		return http.MethodPost
	}
	return http.MethodGet
}

// Handler executa um procedimento com a entrada já sem o invólucro superjson
type Handler func(c *gin.Context, input json.RawMessage) (interface{}, error)

type procedure struct {
	kind    Kind
	handler Handler
}

// Router despacha chamadas no formato do tRPC, em lote ou individuais
type Router struct {
	procedures map[string]procedure
	logger     logger.Logger
}

// NewRouter cria um Router vazio
func NewRouter(log logger.Logger) *Router {
	return &Router{
		procedures: make(map[string]procedure),
		logger:     log,
	}
}

// Query registra uma consulta
func (r *Router) Query(name string, h Handler) {
	r.procedures[name] = procedure{kind: KindQuery, handler: h}
}

// Mutation registra uma mutação
func (r *Router) Mutation(name string, h Handler) {
	r.procedures[name] = procedure{kind: KindMutation, handler: h}
}

// Procedures retorna os nomes registrados em ordem alfabética
func (r *Router) Procedures() []string {
	names := make([]string, 0, len(r.procedures))
	for name := range r.procedures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Handle atende /api/trpc/:procedures. Procedimentos separados por vírgula
// com ?batch=1 recebem entradas indexadas e respondem com um array.
func (r *Router) Handle(c *gin.Context) {
	names := strings.Split(strings.TrimPrefix(c.Param("procedures"), "/"), ",")
	batch := c.Query("batch") == "1"

	if !batch && len(names) > 1 {
		r.write(c, false, []response{r.failure(chat.BadRequest("batching is not enabled", nil), "")})
		return
	}

	raw, err := readInput(c)
	if err != nil {
		r.write(c, batch, []response{r.failure(&chat.Error{Code: chat.CodeParseError, Message: "unable to read input", Err: err}, "")})
		return
	}

	inputs := []json.RawMessage{raw}
	if batch {
		inputs, err = splitBatch(raw, len(names))
		if err != nil {
			r.write(c, batch, []response{r.failure(&chat.Error{Code: chat.CodeParseError, Message: "malformed batch input", Err: err}, "")})
			return
		}
	}

	responses := make([]response, 0, len(names))
	for i, name := range names {
		responses = append(responses, r.call(c, name, inputs[i]))
	}

	r.write(c, batch, responses)
}

type response struct {
	status int
	body   interface{}
}

func (r *Router) call(c *gin.Context, name string, raw json.RawMessage) response {
	proc, ok := r.procedures[name]
	if !ok {
		return r.failure(chat.NotFound(fmt.Sprintf("No procedure found on path \"%s\"", name)), name)
	}
	if c.Request.Method != proc.kind.method() {
		return r.failure(&chat.Error{
			Code:    chat.CodeMethodNotSupported,
			Message: fmt.Sprintf("Unsupported %s-request to %s procedure at path \"%s\"", c.Request.Method, kindName(proc.kind), name),
		}, name)
	}

	out, err := proc.handler(c, unwrapInput(raw))
	if err != nil {
		return r.failure(chat.AsError(err), name)
	}

	return response{
		status: http.StatusOK,
		body:   resultEnvelope{Result: resultData{Data: payload{JSON: out}}},
	}
}

func (r *Router) failure(err *chat.Error, path string) response {
	status := HTTPStatus(err.Code)
	if status >= http.StatusInternalServerError {
		r.logger.Error("Erro no procedimento", "path", path, "code", err.Code, "error", err)
	} else {
		r.logger.Debug("Procedimento rejeitado", "path", path, "code", err.Code, "message", err.Message)
	}
	return response{status: status, body: newErrorEnvelope(err, path)}
}

// write responde com o status comum do lote, ou 207 quando os status divergem
func (r *Router) write(c *gin.Context, batch bool, responses []response) {
	status := responses[0].status
	for _, resp := range responses[1:] {
		if resp.status != status {
			status = http.StatusMultiStatus
			break
		}
	}

	if !batch {
		c.JSON(status, responses[0].body)
		return
	}

	bodies := make([]interface{}, len(responses))
	for i, resp := range responses {
		bodies[i] = resp.body
	}
	c.JSON(status, bodies)
}

func readInput(c *gin.Context) (json.RawMessage, error) {
	if c.Request.Method == http.MethodGet {
		return json.RawMessage(c.Query("input")), nil
	}
	if c.Request.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func kindName(k Kind) string {
	if k == KindMutation {
		return "mutation"
	}
	return "query"
}

// Bind decodifica a entrada no destino e aplica as regras `binding` do Gin
func Bind(input json.RawMessage, dst interface{}) error {
	if err := json.Unmarshal(input, dst); err != nil {
		return &chat.Error{Code: chat.CodeParseError, Message: "invalid JSON input", Err: err}
	}
	if binding.Validator == nil {
		return nil
	}
	if err := binding.Validator.ValidateStruct(dst); err != nil {
		return chat.BadRequest(err.Error(), err)
	}
	return nil
}
