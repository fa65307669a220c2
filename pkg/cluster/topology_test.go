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
	"testing"

	"github.com/stretchr/testify/assert"
	corev1 "k8s.io/api/core/v1"

	"github.com/fnndsc/pman/pkg/config"
	"github.com/fnndsc/pman/pkg/test/factory"
)

func TestNewTopology(t *testing.T) {
	assert.Equal(t, config.StorageModeSharedFilesystem, NewTopology(sharedFilesystemConfig()).Mode())
	assert.Equal(t, config.StorageModeObjectStorage, NewTopology(objectStorageConfig()).Mode())
}

func TestTopology_MatchesPod(t *testing.T) {
	staged := stagedJobPod("myproject", "job1-abcde", "job1")
	plain := factory.BuildPod("myproject", "job1-abcde").
		WithContainer(factory.BuildContainer("job1").Get()).
		Get()

	tests := []struct {
		name     string
		topology Topology
		pod      corev1.Pod
		expected bool
	}{
		{
			name:     "object storage matches staged pod",
			topology: NewTopology(objectStorageConfig()),
			pod:      staged,
			expected: true,
		},
		{
			name:     "object storage rejects plain pod",
			topology: NewTopology(objectStorageConfig()),
			pod:      plain,
			expected: false,
		},
		{
			name:     "shared filesystem matches plain pod",
			topology: NewTopology(sharedFilesystemConfig()),
			pod:      plain,
			expected: true,
		},
		{
			name:     "shared filesystem rejects staged pod",
			topology: NewTopology(sharedFilesystemConfig()),
			pod:      staged,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.topology.MatchesPod(&tt.pod))
		})
	}
}
