// ABOUTME: Graphviz engagement graph of leads, contacts and their activities
// ABOUTME: Renders DOT source with node styling by record type
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/harperreed/prospect/db"
	"github.com/harperreed/prospect/models"
	"github.com/harperreed/prospect/service"
)

type GraphGenerator struct {
	svc *service.Service
}

func NewGraphGenerator(svc *service.Service) *GraphGenerator {
	return &GraphGenerator{svc: svc}
}

// GenerateEngagementGraph draws every record around a pipeline hub. Edge
// labels carry linked activity counts; unorganized activities hang off an
// inbox node.
func (g *GraphGenerator) GenerateEngagementGraph(ctx context.Context) (string, error) {
	records, err := g.svc.ListContacts(ctx, db.ContactFilter{})
	if err != nil {
		return "", err
	}
	counts, err := g.svc.ActivityCounts(ctx)
	if err != nil {
		return "", err
	}
	unorganized, err := g.svc.ListActivities(ctx, string(db.StatusUnorganized))
	if err != nil {
		return "", err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer func() {
		_ = gv.Close()
	}()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() {
		_ = graph.Close()
	}()

	graph.SetLabel("Engagement")
	graph.SetRankDir(cgraph.LRRank)

	hub, err := graph.CreateNodeByName("pipeline")
	if err != nil {
		return "", fmt.Errorf("failed to create hub node: %w", err)
	}
	hub.SetLabel("Pipeline")
	hub.SetShape("doublecircle")

	inbox, err := graph.CreateNodeByName("inbox")
	if err != nil {
		return "", fmt.Errorf("failed to create inbox node: %w", err)
	}
	inbox.SetLabel(fmt.Sprintf("Unorganized\n(%d)", len(unorganized)))
	inbox.SetShape("box")
	inbox.SetStyle("dashed")
	if _, err := graph.CreateEdgeByName("inbox", inbox, hub); err != nil {
		return "", fmt.Errorf("failed to create edge: %w", err)
	}

	for i := range records {
		r := &records[i]
		node, err := graph.CreateNodeByName(fmt.Sprintf("record_%d", r.ID))
		if err != nil {
			return "", fmt.Errorf("failed to create record node: %w", err)
		}
		node.SetLabel(recordLabel(r))
		node.SetStyle("filled")
		if r.IsLead() {
			node.SetShape("ellipse")
			node.SetFillColor("lightyellow")
		} else {
			node.SetShape("box")
			node.SetFillColor("lightgreen")
		}

		edge, err := graph.CreateEdgeByName(fmt.Sprintf("engages_%d", r.ID), hub, node)
		if err != nil {
			return "", fmt.Errorf("failed to create edge: %w", err)
		}
		if n := counts[r.ID]; n > 0 {
			edge.SetLabel(fmt.Sprintf("%d", n))
		} else {
			edge.SetStyle("dotted")
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}
	return buf.String(), nil
}

func recordLabel(r *models.Contact) string {
	label := r.Name
	if r.Company != "" {
		label += "\n" + r.Company
	}
	if r.ConversionDate != nil {
		label += "\nconverted " + r.ConversionDate.String()
	}
	return label
}
