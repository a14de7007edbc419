package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	prefixPattern   = regexp.MustCompile(`(?i)PREFIX\s+(\w*):\s*<([^>]+)>`)
	distinctPattern = regexp.MustCompile(`(?i)\bSELECT\s+DISTINCT\b`)
	selectPattern   = regexp.MustCompile(`(?i)SELECT\s+(?:DISTINCT\s+)?([\s\S]*?)\s+WHERE`)
	variablePattern = regexp.MustCompile(`\?(\w+)`)
	wherePattern    = regexp.MustCompile(`(?i)WHERE\s*\{([\s\S]*)\}`)
	filterKeyword   = regexp.MustCompile(`(?i)\bFILTER\s*\(`)
	orderByPattern  = regexp.MustCompile(`(?i)ORDER\s+BY\s+((?:(?:ASC|DESC)\s*\(\s*\?\w+\s*\)|\?\w+)(?:\s+(?:ASC|DESC)\s*\(\s*\?\w+\s*\)|\s+\?\w+)*)`)
	orderFuncRegex  = regexp.MustCompile(`(?i)(ASC|DESC)\s*\(\s*\?(\w+)\s*\)`)
	limitPattern    = regexp.MustCompile(`(?i)LIMIT\s+(\d+)`)
	offsetPattern   = regexp.MustCompile(`(?i)OFFSET\s+(\d+)`)
)

// ParseQuery parses a SPARQL SELECT query.
func ParseQuery(queryStr string) (*Query, error) {
	queryStr = strings.TrimSpace(queryStr)
	if queryStr == "" {
		return nil, fmt.Errorf("empty query")
	}

	if !strings.Contains(strings.ToUpper(queryStr), "SELECT") {
		return nil, fmt.Errorf("unsupported query type: only SELECT queries are supported")
	}

	selectQuery, err := parseSelectQuery(queryStr)
	if err != nil {
		return nil, err
	}
	return &Query{Type: SelectQueryType, Select: selectQuery}, nil
}

func parseSelectQuery(queryStr string) (*SelectQuery, error) {
	query := &SelectQuery{Prefixes: make(map[string]string)}

	for _, match := range prefixPattern.FindAllStringSubmatch(queryStr, -1) {
		query.Prefixes[match[1]] = match[2]
	}
	queryStr = prefixPattern.ReplaceAllString(queryStr, "")

	query.Distinct = distinctPattern.MatchString(queryStr)

	selectMatch := selectPattern.FindStringSubmatch(queryStr)
	if selectMatch == nil {
		return nil, fmt.Errorf("invalid SELECT query: missing WHERE clause")
	}
	varsStr := strings.TrimSpace(selectMatch[1])
	if varsStr == "*" {
		query.Variables = []string{"*"}
	} else {
		query.Variables = variablePattern.FindAllString(varsStr, -1)
		if len(query.Variables) == 0 {
			return nil, fmt.Errorf("no variables found in SELECT clause")
		}
	}

	whereMatch := wherePattern.FindStringSubmatch(queryStr)
	if whereMatch == nil {
		return nil, fmt.Errorf("invalid WHERE clause: missing braces")
	}

	whereClause, filters := extractFilters(whereMatch[1])
	query.Filters = filters

	patterns, err := parseTriplePatterns(whereClause, query.Prefixes)
	if err != nil {
		return nil, err
	}
	query.Where = patterns

	// Solution modifiers follow the closing brace.
	tail := queryStr[strings.LastIndex(queryStr, "}")+1:]

	if match := orderByPattern.FindStringSubmatch(tail); match != nil {
		query.OrderBy = parseOrderBy(match[1])
	}
	if match := limitPattern.FindStringSubmatch(tail); match != nil {
		query.Limit, _ = strconv.Atoi(match[1])
	}
	if match := offsetPattern.FindStringSubmatch(tail); match != nil {
		query.Offset, _ = strconv.Atoi(match[1])
	}

	return query, nil
}

func parseOrderBy(orderByStr string) []OrderBy {
	var orderBys []OrderBy
	for _, match := range orderFuncRegex.FindAllStringSubmatch(orderByStr, -1) {
		orderBys = append(orderBys, OrderBy{
			Variable:   "?" + match[2],
			Descending: strings.EqualFold(match[1], "DESC"),
		})
	}
	if len(orderBys) > 0 {
		return orderBys
	}
	for _, match := range variablePattern.FindAllStringSubmatch(orderByStr, -1) {
		orderBys = append(orderBys, OrderBy{Variable: "?" + match[1]})
	}
	return orderBys
}

// extractFilters removes FILTER(...) clauses with balanced parentheses and
// returns the remaining clause text along with the filters.
func extractFilters(whereClause string) (string, []Filter) {
	var filters []Filter
	var rest strings.Builder
	last := 0

	for _, match := range filterKeyword.FindAllStringIndex(whereClause, -1) {
		if match[0] < last {
			continue
		}
		depth := 1
		end := match[1]
		for end < len(whereClause) && depth > 0 {
			switch whereClause[end] {
			case '(':
				depth++
			case ')':
				depth--
			}
			end++
		}
		if depth != 0 {
			break
		}
		filters = append(filters, Filter{Expression: strings.TrimSpace(whereClause[match[1] : end-1])})
		rest.WriteString(whereClause[last:match[0]])
		last = end
	}
	rest.WriteString(whereClause[last:])
	return rest.String(), filters
}

// splitTriples splits a WHERE clause on periods outside IRIs and literals.
func splitTriples(whereClause string) []string {
	var triples []string
	var current strings.Builder
	inURI, inLiteral := false, false

	for _, ch := range whereClause {
		switch {
		case ch == '<' && !inLiteral:
			inURI = true
		case ch == '>' && inURI:
			inURI = false
		case ch == '"' && !inURI:
			inLiteral = !inLiteral
		case ch == '.' && !inURI && !inLiteral:
			if current.Len() > 0 {
				triples = append(triples, current.String())
				current.Reset()
			}
			continue
		}
		current.WriteRune(ch)
	}
	if current.Len() > 0 {
		triples = append(triples, current.String())
	}
	return triples
}

// parseTriplePatterns parses the triple patterns of a WHERE clause and
// expands declared prefixes. "a" is read as rdf:type and ";" repeats the
// subject.
func parseTriplePatterns(whereClause string, prefixes map[string]string) ([]TriplePattern, error) {
	var patterns []TriplePattern

	for _, line := range splitTriples(whereClause) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var currentSubject string
		for _, part := range strings.Split(line, ";") {
			tokens := tokenize(strings.TrimSpace(part))
			switch {
			case len(tokens) == 0:
				continue
			case len(tokens) == 2 && currentSubject != "":
				tokens = append([]string{currentSubject}, tokens...)
			case len(tokens) < 3:
				return nil, fmt.Errorf("incomplete triple pattern: %q", strings.TrimSpace(part))
			}

			predicate := tokens[1]
			if predicate == "a" {
				predicate = "rdf:type"
			}

			patterns = append(patterns, TriplePattern{
				Subject:   expandPrefix(tokens[0], prefixes),
				Predicate: expandPrefix(predicate, prefixes),
				Object:    expandPrefix(strings.Join(tokens[2:], " "), prefixes),
			})
			currentSubject = tokens[0]
		}
	}

	return patterns, nil
}

// tokenize splits a triple pattern into tokens, respecting IRIs and literals.
func tokenize(s string) []string {
	var tokens []string
	var current strings.Builder
	inURI, inLiteral := false, false

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, ch := range s {
		switch {
		case ch == '<' && !inLiteral:
			inURI = true
			current.WriteRune(ch)
		case ch == '>' && inURI:
			inURI = false
			current.WriteRune(ch)
			flush()
		case ch == '"':
			inLiteral = !inLiteral
			current.WriteRune(ch)
			if !inLiteral {
				flush()
			}
		case (ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r') && !inURI && !inLiteral:
			flush()
		default:
			current.WriteRune(ch)
		}
	}
	flush()
	return tokens
}

// expandPrefix turns a prefixed name with a declared prefix into an IRI.
// Undeclared prefixes such as rdf: are left as they are.
func expandPrefix(term string, prefixes map[string]string) string {
	term = strings.TrimSpace(term)
	if term == "" || term[0] == '?' || term[0] == '<' || term[0] == '"' {
		return term
	}

	colonIdx := strings.Index(term, ":")
	if colonIdx < 0 || colonIdx == len(term)-1 {
		return term
	}
	if baseURI, ok := prefixes[term[:colonIdx]]; ok {
		return "<" + baseURI + term[colonIdx+1:] + ">"
	}
	return term
}

// Validate checks if the query is well-formed.
func (q *Query) Validate() []error {
	if q.Select == nil {
		return []error{fmt.Errorf("SELECT query missing select clause")}
	}
	return q.Select.Validate()
}

// Validate checks if the SELECT query is well-formed.
func (q *SelectQuery) Validate() []error {
	var errs []error

	if len(q.Variables) == 0 {
		errs = append(errs, fmt.Errorf("SELECT clause has no variables"))
	}
	if len(q.Where) == 0 {
		errs = append(errs, fmt.Errorf("WHERE clause has no triple patterns"))
	}

	if len(q.Variables) > 0 && q.Variables[0] != "*" {
		bound := make(map[string]bool)
		for _, p := range q.Where {
			for _, term := range []string{p.Subject, p.Predicate, p.Object} {
				if IsVariable(term) {
					bound[term] = true
				}
			}
		}
		for _, v := range q.Variables {
			if !bound[v] {
				errs = append(errs, fmt.Errorf("variable %s in SELECT is not bound in WHERE clause", v))
			}
		}
	}

	return errs
}

// String renders the query with prefixes already expanded.
func (q *SelectQuery) String() string {
	var sb strings.Builder

	sb.WriteString("SELECT ")
	if q.Distinct {
		sb.WriteString("DISTINCT ")
	}
	sb.WriteString(strings.Join(q.Variables, " "))

	sb.WriteString(" WHERE {\n")
	for _, p := range q.Where {
		fmt.Fprintf(&sb, "  %s %s %s .\n", p.Subject, p.Predicate, p.Object)
	}
	for _, f := range q.Filters {
		fmt.Fprintf(&sb, "  FILTER(%s)\n", f.Expression)
	}
	sb.WriteString("}")

	if len(q.OrderBy) > 0 {
		sb.WriteString(" ORDER BY")
		for _, ob := range q.OrderBy {
			if ob.Descending {
				fmt.Fprintf(&sb, " DESC(%s)", ob.Variable)
			} else {
				fmt.Fprintf(&sb, " %s", ob.Variable)
			}
		}
	}
	if q.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.Limit)
	}
	if q.Offset > 0 {
		fmt.Fprintf(&sb, " OFFSET %d", q.Offset)
	}

	return sb.String()
}
