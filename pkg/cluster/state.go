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
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
)

// DeriveState reduces the orchestrator's raw job status to the normalized
// four-valued lifecycle summary. It is total and pure.
//
// Failure detection pre-empts every other signal: the conditions are scanned
// in the order the orchestrator reported them and the first Failed=True
// condition wins, even when the counters and completion time look healthy
// otherwise. Condition order in the raw status is not guaranteed stable, so
// the ordered scan must not be replaced with a map lookup.
func DeriveState(status batchv1.JobStatus) JobStatus {
	derived := JobStatus{
		Active:         status.Active,
		Succeeded:      status.Succeeded,
		Failed:         status.Failed,
		StartTime:      status.StartTime,
		CompletionTime: status.CompletionTime,
	}

	for _, condition := range status.Conditions {
		if condition.Type == batchv1.JobFailed && condition.Status == corev1.ConditionTrue {
			derived.State = JobStateFailed
			derived.Message = "started"
			derived.Reason = condition.Reason
			return derived
		}
	}

	switch {
	case status.CompletionTime != nil && status.Succeeded > 0:
		derived.State = JobStateComplete
		derived.Message = "finished"
	case status.Active > 0:
		derived.State = JobStateRunning
		derived.Message = "started"
	default:
		derived.State = JobStateInactive
		derived.Message = "inactive"
	}
	return derived
}
