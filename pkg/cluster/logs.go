/*
 * Copyright 2023 FNNDSC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cluster

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	corev1 "k8s.io/api/core/v1"
)

// LogAggregator concatenates the per-container logs of an object-storage-mode
// job pod in a fixed init -> primary -> publish order. Downstream tooling
// parses the labelled section markers, so the layout is part of the contract.
type LogAggregator struct {
	client Client
}

func NewLogAggregator(client Client) LogAggregator {
	return LogAggregator{client: client}
}

// Aggregate fetches the three container logs of the given pod and assembles
// them as
//
//	{pod}: init_container log:{init}plugin_container log:{primary}publish_container log:{publish}
//
// The three reads are issued concurrently but the assembly order is fixed.
// Any single fetch failure fails the whole aggregation; partial logs are
// never returned. Pods without the init/publish helpers (shared-filesystem
// jobs) are rejected up front.
func (a LogAggregator) Aggregate(ctx context.Context, pod *corev1.Pod) (string, error) {
	if !(objectStorageTopology{}).MatchesPod(pod) {
		return "", UnsupportedTopologyErr.Errorf(
			"pod %s does not carry the init/publish staging containers; logs are only aggregated for %s jobs",
			pod.Name, "object-storage")
	}

	// The primary container is named after the job id, recovered from the
	// pod name's leading segment. Job names containing the separator break
	// this derivation; kept as-is for compatibility.
	primaryContainer := strings.SplitN(pod.Name, "-", 2)[0]

	containers := []string{initContainerName, primaryContainer, publishContainerName}
	logs := make([]string, len(containers))

	g, ctx := errgroup.WithContext(ctx)
	for i, container := range containers {
		i, container := i, container
		g.Go(func() error {
			out, err := a.client.GetPodLog(ctx, pod.Name, container)
			if err != nil {
				return err
			}
			logs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s: init_container log:%splugin_container log:%spublish_container log:%s",
		pod.Name, logs[0], logs[1], logs[2]), nil
}
