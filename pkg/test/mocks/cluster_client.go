package mocks

import (
	"context"
	"sync"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
)

// Todo: use some tool for auto-generating mocks
type MockedClusterClient struct {
	NumCallsSubmitJob uint
	NumCallsGetJob    uint
	NumCallsDeleteJob uint
	NumCallsListPods  uint
	NumCallsGetPodLog uint
	NumCallsSubmitPod uint
	NumCallsGetPod    uint
	NumCallsDeletePod uint

	// SubmittedJobs and SubmittedPods record every descriptor handed to the
	// mock, in call order.
	SubmittedJobs []*batchv1.Job
	SubmittedPods []*corev1.Pod

	ReturnedJob  *batchv1.Job
	ReturnedPod  *corev1.Pod
	ReturnedPods []corev1.Pod
	// ReturnedLogs is keyed by container name.
	ReturnedLogs  map[string]string
	ReturnedError error

	lock sync.Mutex
}

func (m *MockedClusterClient) Reset() {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.NumCallsSubmitJob = 0
	m.NumCallsGetJob = 0
	m.NumCallsDeleteJob = 0
	m.NumCallsListPods = 0
	m.NumCallsGetPodLog = 0
	m.NumCallsSubmitPod = 0
	m.NumCallsGetPod = 0
	m.NumCallsDeletePod = 0
	m.SubmittedJobs = nil
	m.SubmittedPods = nil
}

func (m *MockedClusterClient) SubmitJob(_ context.Context, job *batchv1.Job) (*batchv1.Job, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.NumCallsSubmitJob++
	m.SubmittedJobs = append(m.SubmittedJobs, job)
	if m.ReturnedError != nil {
		return nil, m.ReturnedError
	}
	if m.ReturnedJob != nil {
		return m.ReturnedJob, nil
	}
	return job, nil
}

func (m *MockedClusterClient) GetJob(_ context.Context, _ string) (*batchv1.Job, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.NumCallsGetJob++
	if m.ReturnedError != nil {
		return nil, m.ReturnedError
	}
	if m.ReturnedJob != nil {
		return m.ReturnedJob, nil
	}
	return &batchv1.Job{}, nil
}

func (m *MockedClusterClient) DeleteJob(_ context.Context, _ string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.NumCallsDeleteJob++
	return m.ReturnedError
}

func (m *MockedClusterClient) ListPods(_ context.Context, _ string) ([]corev1.Pod, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.NumCallsListPods++
	return m.ReturnedPods, m.ReturnedError
}

func (m *MockedClusterClient) GetPodLog(_ context.Context, _, containerName string) (string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.NumCallsGetPodLog++
	if m.ReturnedError != nil {
		return "", m.ReturnedError
	}
	return m.ReturnedLogs[containerName], nil
}

func (m *MockedClusterClient) SubmitPod(_ context.Context, pod *corev1.Pod) (*corev1.Pod, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.NumCallsSubmitPod++
	m.SubmittedPods = append(m.SubmittedPods, pod)
	if m.ReturnedError != nil {
		return nil, m.ReturnedError
	}
	return pod, nil
}

func (m *MockedClusterClient) GetPod(_ context.Context, _ string) (*corev1.Pod, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.NumCallsGetPod++
	if m.ReturnedError != nil {
		return nil, m.ReturnedError
	}
	if m.ReturnedPod != nil {
		return m.ReturnedPod, nil
	}
	return &corev1.Pod{}, nil
}

func (m *MockedClusterClient) DeletePod(_ context.Context, _ string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.NumCallsDeletePod++
	return m.ReturnedError
}
