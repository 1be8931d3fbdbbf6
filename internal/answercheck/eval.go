package answercheck

import "strconv"

// Restricted arithmetic evaluator. The grammar knows numeric literals,
// parentheses, unary +/- and the four binary operators; there are no
// variables, calls or comparisons. The candidate text is attacker
// controlled, so evaluation walks an explicit node tree built by the parser
// below instead of delegating to any general-purpose interpreter.

type nodeKind int

const (
	nodeLiteral nodeKind = iota
	nodeUnary
	nodeBinary
)

type exprNode struct {
	kind    nodeKind
	op      byte
	val     float64
	operand *exprNode // unary
	left    *exprNode // binary
	right   *exprNode
}

// evaluate parses a sanitized expression and returns its numeric value.
// maxDepth bounds parenthetical nesting against adversarial input.
func evaluate(cleaned string, maxDepth int) (float64, error) {
	p := &parser{input: cleaned, maxDepth: maxDepth}
	root, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return 0, ErrMalformedExpression
	}
	return evalNode(root)
}

type parser struct {
	input    string
	pos      int
	depth    int
	maxDepth int
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

// expr := term (('+'|'-') term)*
func (p *parser) parseExpr() (*exprNode, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &exprNode{kind: nodeBinary, op: op, left: left, right: right}
	}
}

// term := unary (('*'|'/') unary)*
func (p *parser) parseTerm() (*exprNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &exprNode{kind: nodeBinary, op: op, left: left, right: right}
	}
}

// unary := ('+'|'-')* primary
func (p *parser) parseUnary() (*exprNode, error) {
	var signs []byte
	for {
		c := p.peek()
		if c != '+' && c != '-' {
			break
		}
		signs = append(signs, c)
		p.pos++
	}
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for i := len(signs) - 1; i >= 0; i-- {
		node = &exprNode{kind: nodeUnary, op: signs[i], operand: node}
	}
	return node, nil
}

// primary := number | '(' expr ')'
func (p *parser) parsePrimary() (*exprNode, error) {
	c := p.peek()
	if c == '(' {
		p.depth++
		if p.depth > p.maxDepth {
			return nil, ErrDepthExceeded
		}
		p.pos++
		node, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, ErrMalformedExpression
		}
		p.pos++
		p.depth--
		return node, nil
	}
	if c >= '0' && c <= '9' {
		return p.parseNumber()
	}
	return nil, ErrMalformedExpression
}

func (p *parser) parseNumber() (*exprNode, error) {
	start := p.pos
	for p.pos < len(p.input) && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
		p.pos++
	}
	if p.pos < len(p.input) && p.input[p.pos] == '.' {
		p.pos++
		for p.pos < len(p.input) && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
			p.pos++
		}
	}
	v, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return nil, ErrMalformedExpression
	}
	return &exprNode{kind: nodeLiteral, val: v}, nil
}

// evalNode is a post-order walk over the permitted node kinds. Anything
// outside the three kinds is rejected, never interpreted.
func evalNode(n *exprNode) (float64, error) {
	switch n.kind {
	case nodeLiteral:
		return n.val, nil
	case nodeUnary:
		v, err := evalNode(n.operand)
		if err != nil {
			return 0, err
		}
		if n.op == '-' {
			return -v, nil
		}
		return v, nil
	case nodeBinary:
		l, err := evalNode(n.left)
		if err != nil {
			return 0, err
		}
		r, err := evalNode(n.right)
		if err != nil {
			return 0, err
		}
		switch n.op {
		case '+':
			return l + r, nil
		case '-':
			return l - r, nil
		case '*':
			return l * r, nil
		case '/':
			if r == 0 {
				return 0, ErrDivisionByZero
			}
			return l / r, nil
		}
	}
	return 0, ErrMalformedExpression
}
