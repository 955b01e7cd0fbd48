// Package topology 路网拓扑视图
// 功能：把路口、道路组织为gonum有向图，用于行程连通性检查和DOT导出
package topology

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/trafficsim-oss/entity"
	"github.com/tsinghua-fib-lab/trafficsim-oss/event"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

var log = logrus.WithField("module", "topology")

// 路口节点
type junctionNode struct {
	id   int64
	name string
	kind string
}

func (n *junctionNode) ID() int64 { return n.id }

// DOTID DOT输出中使用路口ID
func (n *junctionNode) DOTID() string { return n.name }

func (n *junctionNode) Attributes() []encoding.Attribute {
	if n.kind == "" {
		return nil
	}
	return []encoding.Attribute{{Key: "xlabel", Value: n.kind}}
}

// 道路边
type roadEdge struct {
	from, to *junctionNode
	road     string
	length   int
	kind     string
}

func (e *roadEdge) From() graph.Node { return e.from }
func (e *roadEdge) To() graph.Node { return e.to }

func (e *roadEdge) ReversedEdge() graph.Edge {
	return &roadEdge{from: e.to, to: e.from, road: e.road, length: e.length, kind: e.kind}
}

func (e *roadEdge) Attributes() []encoding.Attribute {
	label := fmt.Sprintf("%s(%d)", e.road, e.length)
	if e.kind != "" {
		label = fmt.Sprintf("%s[%s](%d)", e.road, e.kind, e.length)
	}
	return []encoding.Attribute{{Key: "label", Value: label}}
}

// Graph 路网有向图
// 说明：同一对路口间有多条道路时只保留先加入的一条，与路口查找出路的规则一致
type Graph struct {
	g     *simple.DirectedGraph
	nodes map[string]*junctionNode
}

func newGraph() *Graph {
	return &Graph{
		g:     simple.NewDirectedGraph(),
		nodes: make(map[string]*junctionNode),
	}
}

// Build 根据当前注册表构建路网图
func Build(ctx entity.ITaskContext) *Graph {
	g := newGraph()
	for _, j := range ctx.JunctionManager().Junctions() {
		g.addJunction(j.ID(), j.Kind().Tag())
	}
	for _, r := range ctx.RoadManager().Roads() {
		g.addRoad(r.ID(), r.Kind().Tag(), r.From(), r.To(), r.Length())
	}
	return g
}

// FromEvents 根据场景事件（尚未执行）构建路网图
// 说明：只考虑创建路口和道路的事件，引用未知路口的道路被忽略并记录警告
func FromEvents(events []event.Event) *Graph {
	g := newGraph()
	for _, e := range events {
		if ev, ok := e.(*event.NewJunction); ok {
			g.addJunction(ev.Attr.ID, ev.Attr.Kind.Tag())
		}
	}
	for _, e := range events {
		if ev, ok := e.(*event.NewRoad); ok {
			a := ev.Attr
			if !g.addRoad(a.ID, a.Kind.Tag(), a.From, a.To, a.Length) {
				log.Warnf("road %s references unknown junction %s or %s", a.ID, a.From, a.To)
			}
		}
	}
	return g
}

func (g *Graph) addJunction(id, kind string) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	n := &junctionNode{id: g.g.NewNode().ID(), name: id, kind: kind}
	g.g.AddNode(n)
	g.nodes[id] = n
}

func (g *Graph) addRoad(id, kind, from, to string, length int) bool {
	f, ok1 := g.nodes[from]
	t, ok2 := g.nodes[to]
	if !ok1 || !ok2 {
		return false
	}
	// 自环在simple图中不允许
	if f == t || g.g.HasEdgeFromTo(f.id, t.id) {
		return true
	}
	g.g.SetEdge(&roadEdge{from: f, to: t, road: id, length: length, kind: kind})
	return true
}

// NumJunctions 路口数
func (g *Graph) NumJunctions() int {
	return len(g.nodes)
}

// Road 返回from到to的直连道路ID
func (g *Graph) Road(from, to string) (string, bool) {
	f, ok1 := g.nodes[from]
	t, ok2 := g.nodes[to]
	if !ok1 || !ok2 {
		return "", false
	}
	e := g.g.Edge(f.id, t.id)
	if e == nil {
		return "", false
	}
	return e.(*roadEdge).road, true
}

// Reachable from出发是否存在到达to的路径（可经过多条道路）
func (g *Graph) Reachable(from, to string) bool {
	f, ok1 := g.nodes[from]
	t, ok2 := g.nodes[to]
	if !ok1 || !ok2 {
		return false
	}
	return topo.PathExistsIn(g.g, f, t)
}

// MissingHops 检查行程中相邻路口之间是否都有直连道路
// 返回：缺少道路的路段下标i（表示itinerary[i]到itinerary[i+1]）
func (g *Graph) MissingHops(itinerary []string) []int {
	var missing []int
	for i := 0; i+1 < len(itinerary); i++ {
		if _, ok := g.Road(itinerary[i], itinerary[i+1]); !ok {
			missing = append(missing, i)
		}
	}
	return missing
}

// DOT 导出Graphviz DOT文本
func (g *Graph) DOT() ([]byte, error) {
	return dot.Marshal(g.g, "network", "", "  ")
}
