// Package basis evaluates B-spline basis functions.
//
// A basis function N(i,p) of degree p > 0 is the Cox-de Boor combination of
// N(i,p-1) and N(i+1,p-1); degree-0 functions are indicator functions of a
// single knot span. The recursion is stored as an arena: every node lives in
// a slice owned by a [Network] and refers to its children by index. Nodes are
// shared between parents, so all basis functions of one knot vector and
// degree form a single directed acyclic graph.
package basis

import (
	"fmt"

	"github.com/mfcats/SplineLib-sub001/internal"
	"github.com/mfcats/SplineLib-sub001/knot"
	"github.com/mfcats/SplineLib-sub001/types"
)

type handle int32

// none marks a missing child: the function of degree NoBasisFunction.
const none handle = -1

type node struct {
	degree     types.Degree
	start, end float64
	endIsLast  bool

	// knot[i+p] and knot[i+1]
	leftEnd, rightStart float64

	// inverse denominators of the Cox-de Boor quotients, 0 for a degenerate
	// (repeated) knot interval
	leftInv, rightInv float64

	left, right handle
}

func (n *node) inSupport(u float64) bool {
	if n.end-n.start < internal.Epsilon {
		return false
	}
	if n.start <= u && u < n.end {
		return true
	}
	return n.endIsLast && internal.AreEqual(u, n.end, internal.Epsilon)
}

// Network holds basis functions of one knot vector. Its nodes are immutable
// once built; a changed knot vector needs a new Network.
type Network struct {
	nodes  []node
	lookup map[[2]int]handle
	roots  []handle
	degree types.Degree
}

// NewNetwork builds all len(kv)-degree-1 basis functions of the given degree
// over kv.
func NewNetwork(kv *knot.Vector, degree types.Degree) (*Network, error) {
	if err := degree.ValidateNonNegative(); err != nil {
		return nil, err
	}
	count := kv.Len() - degree.Order()
	if count < 1 {
		return nil, fmt.Errorf("%w: %d knots define no basis function of degree %d", types.ErrInvalidArgument, kv.Len(), degree)
	}

	net := &Network{
		lookup: make(map[[2]int]handle),
		roots:  make([]handle, count),
		degree: degree,
	}
	for i := range net.roots {
		net.roots[i] = net.add(kv, i, int(degree))
	}
	return net, nil
}

// Len returns the number of basis functions in the network.
func (net *Network) Len() int {
	return len(net.roots)
}

func (net *Network) Degree() types.Degree {
	return net.degree
}

// Function returns the i-th basis function N(i,p).
func (net *Network) Function(i int) Function {
	return Function{net: net, h: net.roots[i]}
}

// Nodes returns the number of distinct recursion nodes stored in the network.
func (net *Network) Nodes() int {
	return len(net.nodes)
}

func (net *Network) add(kv *knot.Vector, i, p int) handle {
	if p < 0 {
		return none
	}
	if h, ok := net.lookup[[2]int{i, p}]; ok {
		return h
	}

	n := node{
		degree:    types.Degree(p),
		start:     float64(kv.Knot(i)),
		end:       float64(kv.Knot(i + p + 1)),
		endIsLast: kv.IsLastKnot(kv.Knot(i + p + 1)),
		left:      none,
		right:     none,
	}
	if p > 0 {
		n.leftEnd = float64(kv.Knot(i + p))
		n.rightStart = float64(kv.Knot(i + 1))
		n.leftInv = inverse(n.leftEnd - n.start)
		n.rightInv = inverse(n.end - n.rightStart)
		n.left = net.add(kv, i, p-1)
		n.right = net.add(kv, i+1, p-1)
	}

	h := handle(len(net.nodes))
	net.nodes = append(net.nodes, n)
	net.lookup[[2]int{i, p}] = h
	return h
}

func inverse(d float64) float64 {
	if internal.IsZero(d) {
		return 0
	}
	return 1 / d
}

func (net *Network) evaluate(h handle, u float64) float64 {
	if h == none {
		return 0
	}
	n := &net.nodes[h]
	if !n.inSupport(u) {
		return 0
	}
	if n.degree == 0 {
		return 1
	}
	return (u-n.start)*n.leftInv*net.evaluate(n.left, u) +
		(n.end-u)*n.rightInv*net.evaluate(n.right, u)
}

func (net *Network) evaluateDerivative(h handle, u float64, k int) float64 {
	if k == 0 {
		return net.evaluate(h, u)
	}
	if h == none {
		return 0
	}
	n := &net.nodes[h]
	if n.degree == 0 || !n.inSupport(u) {
		return 0
	}
	return float64(n.degree) * (n.leftInv*net.evaluateDerivative(n.left, u, k-1) -
		n.rightInv*net.evaluateDerivative(n.right, u, k-1))
}

// Function is a single basis function N(i,p). The zero value is the function
// of degree NoBasisFunction, which is identically zero.
type Function struct {
	net *Network
	h   handle
}

// CreateDynamic builds the basis function N(span, degree) over kv in a
// network of its own. Degree [types.NoBasisFunction] yields the zero
// function; lower degrees and functions whose support would leave the knot
// vector fail with [types.ErrInvalidArgument].
func CreateDynamic(kv *knot.Vector, span types.KnotSpan, degree types.Degree) (Function, error) {
	if err := degree.Validate(); err != nil {
		return Function{}, err
	}
	if degree == types.NoBasisFunction {
		return Function{}, nil
	}
	if span < 0 || int(span)+degree.Order() >= kv.Len() {
		return Function{}, fmt.Errorf("%w: basis function %d of degree %d needs knots beyond %d",
			types.ErrInvalidArgument, span, degree, kv.Len())
	}

	net := &Network{lookup: make(map[[2]int]handle), degree: degree}
	h := net.add(kv, int(span), int(degree))
	net.roots = []handle{h}
	return Function{net: net, h: h}, nil
}

// IsZero reports whether f is the function of degree NoBasisFunction.
func (f Function) IsZero() bool {
	return f.net == nil || f.h == none
}

func (f Function) Degree() types.Degree {
	if f.IsZero() {
		return types.NoBasisFunction
	}
	return f.net.nodes[f.h].degree
}

// Support returns the interval outside of which f vanishes.
func (f Function) Support() (start, end types.ParametricCoordinate) {
	if f.IsZero() {
		return 0, 0
	}
	n := &f.net.nodes[f.h]
	return types.ParametricCoordinate(n.start), types.ParametricCoordinate(n.end)
}

// Evaluate returns f(u). It is 0 outside [start, end), where end is included
// if it is the last knot of the knot vector.
func (f Function) Evaluate(u types.ParametricCoordinate) float64 {
	if f.IsZero() {
		return 0
	}
	return f.net.evaluate(f.h, float64(u))
}

// EvaluateDerivative returns the k-th derivative of f at u.
func (f Function) EvaluateDerivative(u types.ParametricCoordinate, k types.Derivative) float64 {
	if f.IsZero() || k < 0 {
		return 0
	}
	return f.net.evaluateDerivative(f.h, float64(u), int(k))
}
