package blockchain

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/emicklei/dot"
	"github.com/pharoslabs/pharos/beacon-chain/forkchoice/protoarray"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
)

const template = `<html>
<head>
    <script src="//cdnjs.cloudflare.com/ajax/libs/viz.js/2.1.2/viz.js"></script>
    <script src="//cdnjs.cloudflare.com/ajax/libs/viz.js/2.1.2/full.render.js"></script>
<body>
    <script type="application/javascript">
        var graph = ` + "`%s`;" + `
        var viz = new Viz();
        viz.renderSVGElement(graph)
            .then(function(element) {
                document.body.appendChild(element);
            })
            .catch(error => {
                viz = new Viz();
                console.error(error);
            });
    </script>
</head>
</body>
</html>`

// TreeHandler renders the fork choice store as a block tree, one box per tracked
// block with its slot, weight and best descendant. The current head is green.
func (s *Service) TreeHandler(w http.ResponseWriter, _ *http.Request) {
	if !s.hasHeadState() {
		if _, err := w.Write([]byte("Unavailable until chain start")); err != nil {
			log.WithError(err).Error("Failed to render block tree page")
		}
		return
	}

	headRoot, err := s.HeadRoot(s.ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	nodes := s.forkChoiceStore.Nodes()

	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "RL")
	graph.Attr("labeljust", "l")

	dotNodes := make([]*dot.Node, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		root := n.Root()
		label := "slot: " + strconv.FormatUint(uint64(n.Slot()), 10) +
			"\n root: " + fmt.Sprintf("%#x", bytesutil.Trunc(root[:])) +
			"\n weight: " + strconv.FormatUint(n.Weight()/1e9, 10) +
			"\n bestDescendant: " + strconv.FormatUint(n.BestDescendant(), 10)
		dotN := graph.Node(strconv.Itoa(i)).Box().Attr("label", label)
		if n.Root() == bytesutil.ToBytes32(headRoot) {
			dotN = dotN.Attr("color", "green")
		}
		dotNodes[i] = &dotN
	}

	for i := len(nodes) - 1; i >= 0; i-- {
		parent := nodes[i].Parent()
		if parent != protoarray.NonExistentNode && parent < uint64(len(dotNodes)) {
			graph.Edge(*dotNodes[i], *dotNodes[parent])
		}
	}

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprintf(w, template, graph.String()); err != nil {
		log.WithError(err).Error("Failed to render block tree page")
	}
}

// HeadsHandler lists the leaves of the block tree, the competing chain heads
// fork choice currently knows about.
func (s *Service) HeadsHandler(w http.ResponseWriter, _ *http.Request) {
	if _, err := fmt.Fprintf(w, "\n %s\t%s\t", "Head slot", "Head root"); err != nil {
		log.WithError(err).Error("Failed to render chain heads page")
		return
	}
	if _, err := fmt.Fprintf(w, "\n %s\t%s\t", "---------", "---------"); err != nil {
		log.WithError(err).Error("Failed to render chain heads page")
		return
	}

	for _, n := range s.forkChoiceStore.Nodes() {
		if n.BestChild() != protoarray.NonExistentNode {
			continue
		}
		root := n.Root()
		r := fmt.Sprintf("%#x", bytesutil.Trunc(root[:]))
		if _, err := fmt.Fprintf(w, "\n %d\t\t%s\t", n.Slot(), r); err != nil {
			log.WithError(err).Error("Failed to render chain heads page")
			return
		}
	}
}
