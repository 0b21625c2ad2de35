// Package health inspects a bootstrapped cluster through its admin
// credential and reports node readiness.
package health

import (
	"context"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
)

// coordinatorRoleLabel is the node label the init tool places on the
// control-plane node.
const coordinatorRoleLabel = "node-role.kubernetes.io/master"

// NodeStatus is one node's readiness as seen by the API server.
type NodeStatus struct {
	Name        string
	Ready       bool
	Coordinator bool
	Version     string
}

// Report summarizes cluster membership after a bootstrap run.
type Report struct {
	Nodes []NodeStatus
}

// ReadyCount returns how many nodes report Ready.
func (r *Report) ReadyCount() int {
	n := 0
	for _, node := range r.Nodes {
		if node.Ready {
			n++
		}
	}
	return n
}

// Summary is the one-line readiness outcome.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d of %d nodes ready", r.ReadyCount(), len(r.Nodes))
}

// NewClientset builds an API client from admin credential bytes fetched
// off the coordinator.
func NewClientset(kubeconfigData []byte) (kubernetes.Interface, error) {
	config, err := clientcmd.RESTConfigFromKubeConfig(kubeconfigData)
	if err != nil {
		return nil, fmt.Errorf("build rest config from admin credential: %w", err)
	}
	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("create clientset: %w", err)
	}
	return clientset, nil
}

// Check lists the cluster's nodes and builds a readiness report.
func Check(ctx context.Context, clientset kubernetes.Interface) (*Report, error) {
	nodeList, err := clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}

	report := &Report{}
	for _, node := range nodeList.Items {
		_, coordinator := node.Labels[coordinatorRoleLabel]
		report.Nodes = append(report.Nodes, NodeStatus{
			Name:        node.Name,
			Ready:       isNodeReady(&node),
			Coordinator: coordinator,
			Version:     node.Status.NodeInfo.KubeletVersion,
		})
	}
	return report, nil
}

// WaitForNodesReady polls until want nodes report Ready or the timeout
// elapses. Freshly joined workers take a while to pull the runtime images,
// so transient API errors are retried rather than returned.
func WaitForNodesReady(ctx context.Context, clientset kubernetes.Interface, want int, timeout time.Duration) (*Report, error) {
	var report *Report
	err := wait.PollImmediate(5*time.Second, timeout, func() (bool, error) {
		r, err := Check(ctx, clientset)
		if err != nil {
			return false, nil
		}
		report = r
		return r.ReadyCount() >= want, nil
	})
	if err != nil {
		return report, fmt.Errorf("waiting for %d ready nodes: %w", want, err)
	}
	return report, nil
}

func isNodeReady(node *corev1.Node) bool {
	for _, condition := range node.Status.Conditions {
		if condition.Type == corev1.NodeReady &&
			condition.Status == corev1.ConditionTrue {
			return true
		}
	}
	return false
}
