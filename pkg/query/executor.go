package query

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/coolbeans/norma/pkg/store"
)

var (
	regexFilter     = regexp.MustCompile(`(?i)^REGEX\s*\(\s*"([^"]*)"\s*,\s*"([^"]*)"\s*\)$`)
	containsFilter  = regexp.MustCompile(`(?i)^CONTAINS\s*\(\s*"([^"]*)"\s*,\s*"([^"]*)"\s*\)$`)
	strstartsFilter = regexp.MustCompile(`(?i)^STRSTARTS\s*\(\s*"([^"]*)"\s*,\s*"([^"]*)"\s*\)$`)
	strFunction     = regexp.MustCompile(`(?i)STR\s*\(\s*("[^"]*")\s*\)`)
	equalsFilter    = regexp.MustCompile(`^"([^"]*)"\s*(=|!=)\s*"([^"]*)"$`)
	boundFilter     = regexp.MustCompile(`(?i)^(!?)\s*BOUND\s*\(\s*\?(\w+)\s*\)$`)
)

// Executor executes SPARQL queries against a triple store.
type Executor struct {
	store   *store.TripleStore
	timeout time.Duration
}

// ExecutorOption configures an executor.
type ExecutorOption func(*Executor)

// WithTimeout sets the query execution timeout. Zero disables it.
func WithTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = d
	}
}

// NewExecutor creates a new query executor.
func NewExecutor(tripleStore *store.TripleStore, opts ...ExecutorOption) *Executor {
	e := &Executor{
		store:   tripleStore,
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// QueryResult represents the result of a query execution.
type QueryResult struct {
	Variables []string            // Variable names (without ?)
	Bindings  []map[string]string // Variable bindings for each result row
	Count     int                 // Number of result rows
	Duration  time.Duration       // Parse and execution time
}

// Column returns the values bound to a variable, row by row.
func (r *QueryResult) Column(variable string) []string {
	variable = StripVariable(variable)
	values := make([]string, 0, len(r.Bindings))
	for _, binding := range r.Bindings {
		if v, ok := binding[variable]; ok {
			values = append(values, v)
		}
	}
	return values
}

// ExecuteWithContext executes a parsed query with context for cancellation.
func (e *Executor) ExecuteWithContext(ctx context.Context, query *Query) (*QueryResult, error) {
	if query == nil || query.Type != SelectQueryType || query.Select == nil {
		return nil, fmt.Errorf("unsupported query")
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	return e.executeSelect(ctx, query.Select)
}

// ExecuteStringWithContext parses and executes a SPARQL query string with context.
func (e *Executor) ExecuteStringWithContext(ctx context.Context, queryStr string) (*QueryResult, error) {
	start := time.Now()

	query, err := ParseQuery(queryStr)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	result, err := e.ExecuteWithContext(ctx, query)
	if err != nil {
		return nil, err
	}
	result.Duration = time.Since(start)
	return result, nil
}

func (e *Executor) executeSelect(ctx context.Context, query *SelectQuery) (*QueryResult, error) {
	bindings := []map[string]string{{}}

	for _, pattern := range query.Where {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		bindings = e.matchPattern(pattern, bindings)
		if len(bindings) == 0 {
			break
		}
	}

	for _, filter := range query.Filters {
		bindings = applyFilter(filter, bindings)
	}

	if len(query.OrderBy) > 0 {
		applyOrderBy(query.OrderBy, bindings)
	}

	if query.Distinct {
		bindings = applyDistinct(bindings, query.Variables)
	}

	if query.Offset > 0 {
		if query.Offset < len(bindings) {
			bindings = bindings[query.Offset:]
		} else {
			bindings = nil
		}
	}
	if query.Limit > 0 && query.Limit < len(bindings) {
		bindings = bindings[:query.Limit]
	}

	result := &QueryResult{
		Bindings: bindings,
		Count:    len(bindings),
	}

	if len(query.Variables) == 1 && query.Variables[0] == "*" {
		seen := make(map[string]bool)
		for _, binding := range bindings {
			for v := range binding {
				seen[v] = true
			}
		}
		for v := range seen {
			result.Variables = append(result.Variables, v)
		}
		sort.Strings(result.Variables)
	} else {
		for _, v := range query.Variables {
			result.Variables = append(result.Variables, StripVariable(v))
		}
	}

	return result, nil
}

// matchPattern joins the current bindings with the triples matching pattern.
func (e *Executor) matchPattern(pattern TriplePattern, currentBindings []map[string]string) []map[string]string {
	var newBindings []map[string]string

	for _, binding := range currentBindings {
		bound := store.NewTriplePattern(
			resolveValue(pattern.Subject, binding),
			resolveValue(pattern.Predicate, binding),
			resolveValue(pattern.Object, binding),
		)

		for _, triple := range e.store.FindPattern(bound) {
			newBinding := make(map[string]string, len(binding)+3)
			for k, v := range binding {
				newBinding[k] = v
			}

			if bindVariable(newBinding, pattern.Subject, triple.Subject) &&
				bindVariable(newBinding, pattern.Predicate, triple.Predicate) &&
				bindVariable(newBinding, pattern.Object, triple.Object) {
				newBindings = append(newBindings, newBinding)
			}
		}
	}

	return newBindings
}

// bindVariable binds term to value when term is a variable. It reports false
// when the variable is already bound to something else.
func bindVariable(binding map[string]string, term, value string) bool {
	if !IsVariable(term) {
		return true
	}
	name := StripVariable(term)
	if existing, ok := binding[name]; ok {
		return existing == value
	}
	binding[name] = value
	return true
}

// resolveValue turns a pattern term into a store lookup key. Unbound
// variables become wildcards. Full rdf/rdfs IRIs map to the prefixed form the
// store uses.
func resolveValue(value string, binding map[string]string) string {
	switch {
	case IsVariable(value):
		return binding[StripVariable(value)]
	case IsLiteral(value):
		return StripLiteral(value)
	case IsURI(value):
		iri := StripURI(value)
		switch {
		case strings.HasPrefix(iri, store.NamespaceRDF):
			return "rdf:" + iri[len(store.NamespaceRDF):]
		case strings.HasPrefix(iri, store.NamespaceRDFS):
			return "rdfs:" + iri[len(store.NamespaceRDFS):]
		}
		return iri
	}
	return value
}

func applyFilter(filter Filter, bindings []map[string]string) []map[string]string {
	var filtered []map[string]string
	for _, binding := range bindings {
		if evaluateFilter(filter.Expression, binding) {
			filtered = append(filtered, binding)
		}
	}
	return filtered
}

// evaluateFilter supports REGEX, CONTAINS, STRSTARTS, BOUND and string
// (in)equality. Expressions it cannot read keep the row.
func evaluateFilter(expression string, binding map[string]string) bool {
	expression = strings.TrimSpace(expression)

	if match := boundFilter.FindStringSubmatch(expression); match != nil {
		_, ok := binding[match[2]]
		return ok == (match[1] == "")
	}

	expr := expression
	// Longest names first so ?label does not clobber ?labels.
	names := make([]string, 0, len(binding))
	for name := range binding {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	for _, name := range names {
		expr = strings.ReplaceAll(expr, "?"+name, strconvQuote(binding[name]))
	}
	expr = strFunction.ReplaceAllString(expr, "$1")

	if match := regexFilter.FindStringSubmatch(expr); match != nil {
		matched, err := regexp.MatchString(match[2], match[1])
		return err == nil && matched
	}
	if match := containsFilter.FindStringSubmatch(expr); match != nil {
		return strings.Contains(match[1], match[2])
	}
	if match := strstartsFilter.FindStringSubmatch(expr); match != nil {
		return strings.HasPrefix(match[1], match[2])
	}
	if match := equalsFilter.FindStringSubmatch(expr); match != nil {
		if match[2] == "=" {
			return match[1] == match[3]
		}
		return match[1] != match[3]
	}

	return true
}

// strconvQuote wraps a bound value in quotes, dropping inner quotes that the
// filter patterns cannot represent.
func strconvQuote(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, "") + `"`
}

func applyOrderBy(orderBys []OrderBy, bindings []map[string]string) {
	sort.SliceStable(bindings, func(i, j int) bool {
		for _, ob := range orderBys {
			name := StripVariable(ob.Variable)
			a, b := bindings[i][name], bindings[j][name]
			if a == b {
				continue
			}
			if ob.Descending {
				return a > b
			}
			return a < b
		}
		return false
	})
}

func applyDistinct(bindings []map[string]string, variables []string) []map[string]string {
	seen := make(map[string]bool)
	var unique []map[string]string

	for _, binding := range bindings {
		var parts []string
		if len(variables) == 1 && variables[0] == "*" {
			for k, v := range binding {
				parts = append(parts, k+"="+v)
			}
			sort.Strings(parts)
		} else {
			for _, v := range variables {
				parts = append(parts, binding[StripVariable(v)])
			}
		}

		key := strings.Join(parts, "\x00")
		if !seen[key] {
			seen[key] = true
			unique = append(unique, binding)
		}
	}

	return unique
}

// OutputFormat names a result rendering.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatCSV   OutputFormat = "csv"
)

// Format formats the query result in the specified format.
func (r *QueryResult) Format(format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(struct {
			Variables []string            `json:"variables"`
			Bindings  []map[string]string `json:"bindings"`
			Count     int                 `json:"count"`
		}{r.Variables, r.Bindings, r.Count}, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	case FormatCSV:
		return r.formatCSV()
	case FormatTable:
		return r.formatTable(), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func (r *QueryResult) formatTable() string {
	if len(r.Variables) == 0 || len(r.Bindings) == 0 {
		return fmt.Sprintf("No results (%d rows)\n", r.Count)
	}

	widths := make([]int, len(r.Variables))
	for i, v := range r.Variables {
		widths[i] = len([]rune(v))
	}
	for _, binding := range r.Bindings {
		for i, v := range r.Variables {
			if n := len([]rune(binding[v])); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var sep strings.Builder
	sep.WriteString("+")
	for _, w := range widths {
		sep.WriteString(strings.Repeat("-", w+2))
		sep.WriteString("+")
	}
	sep.WriteString("\n")

	row := func(sb *strings.Builder, cell func(i int) string) {
		sb.WriteString("|")
		for i := range r.Variables {
			value := cell(i)
			sb.WriteString(" " + value + strings.Repeat(" ", widths[i]-len([]rune(value))) + " |")
		}
		sb.WriteString("\n")
	}

	var sb strings.Builder
	sb.WriteString(sep.String())
	row(&sb, func(i int) string { return r.Variables[i] })
	sb.WriteString(sep.String())
	for _, binding := range r.Bindings {
		row(&sb, func(i int) string { return binding[r.Variables[i]] })
	}
	sb.WriteString(sep.String())
	fmt.Fprintf(&sb, "%d rows\n", r.Count)
	return sb.String()
}

func (r *QueryResult) formatCSV() (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	if err := writer.Write(r.Variables); err != nil {
		return "", err
	}
	for _, binding := range r.Bindings {
		record := make([]string, len(r.Variables))
		for i, v := range r.Variables {
			record[i] = binding[v]
		}
		if err := writer.Write(record); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
