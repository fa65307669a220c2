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

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// Client is the capability the job manager requires from the orchestrator
// API. Every call is a single synchronous request with no internal retry;
// resilience policy belongs to the caller.
type Client interface {
	SubmitJob(ctx context.Context, job *batchv1.Job) (*batchv1.Job, error)
	GetJob(ctx context.Context, name string) (*batchv1.Job, error)
	DeleteJob(ctx context.Context, name string) error
	ListPods(ctx context.Context, labelSelector string) ([]corev1.Pod, error)
	GetPodLog(ctx context.Context, podName, containerName string) (string, error)
	SubmitPod(ctx context.Context, pod *corev1.Pod) (*corev1.Pod, error)
	GetPod(ctx context.Context, name string) (*corev1.Pod, error)
	DeletePod(ctx context.Context, name string) error
}

// kubeClient implements Client on top of a Kubernetes clientset, scoped to a
// single namespace. Apiserver not-found responses are mapped into this
// package's error taxonomy; nothing else is translated.
type kubeClient struct {
	clientset kubernetes.Interface
	namespace string
}

func NewKubeClient(clientset kubernetes.Interface, namespace string) Client {
	return &kubeClient{clientset: clientset, namespace: namespace}
}

func (c *kubeClient) SubmitJob(ctx context.Context, job *batchv1.Job) (*batchv1.Job, error) {
	created, err := c.clientset.BatchV1().Jobs(c.namespace).Create(ctx, job, metav1.CreateOptions{})
	if err != nil {
		return nil, SubmissionErr.Errorf("unable to create job %s: %v", job.Name, err)
	}
	return created, nil
}

func (c *kubeClient) GetJob(ctx context.Context, name string) (*batchv1.Job, error) {
	job, err := c.clientset.BatchV1().Jobs(c.namespace).Get(ctx, name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return nil, NotFoundErr.Errorf("job %s not found", name)
	}
	if err != nil {
		return nil, GenericErr.Errorf("unable to read job %s: %v", name, err)
	}
	return job, nil
}

func (c *kubeClient) DeleteJob(ctx context.Context, name string) error {
	propagationPolicy := metav1.DeletePropagationForeground
	deleteOptions := metav1.DeleteOptions{PropagationPolicy: &propagationPolicy}
	err := c.clientset.BatchV1().Jobs(c.namespace).Delete(ctx, name, deleteOptions)
	if apierrors.IsNotFound(err) {
		return NotFoundErr.Errorf("job %s not found", name)
	}
	if err != nil {
		return GenericErr.Errorf("unable to delete job %s: %v", name, err)
	}
	return nil
}

func (c *kubeClient) ListPods(ctx context.Context, labelSelector string) ([]corev1.Pod, error) {
	pods, err := c.clientset.CoreV1().Pods(c.namespace).List(ctx, metav1.ListOptions{LabelSelector: labelSelector})
	if err != nil {
		return nil, GenericErr.Errorf("unable to list pods with selector %q: %v", labelSelector, err)
	}
	return pods.Items, nil
}

func (c *kubeClient) GetPodLog(ctx context.Context, podName, containerName string) (string, error) {
	req := c.clientset.CoreV1().Pods(c.namespace).GetLogs(podName, &corev1.PodLogOptions{Container: containerName})
	raw, err := req.Do(ctx).Raw()
	if err != nil {
		return "", LogFetchErr.Errorf("unable to read log of container %s in pod %s: %v", containerName, podName, err)
	}
	return string(raw), nil
}

func (c *kubeClient) SubmitPod(ctx context.Context, pod *corev1.Pod) (*corev1.Pod, error) {
	created, err := c.clientset.CoreV1().Pods(c.namespace).Create(ctx, pod, metav1.CreateOptions{})
	if err != nil {
		return nil, SubmissionErr.Errorf("unable to create pod %s: %v", pod.Name, err)
	}
	return created, nil
}

func (c *kubeClient) GetPod(ctx context.Context, name string) (*corev1.Pod, error) {
	pod, err := c.clientset.CoreV1().Pods(c.namespace).Get(ctx, name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return nil, NotFoundErr.Errorf("pod %s not found", name)
	}
	if err != nil {
		return nil, GenericErr.Errorf("unable to read pod %s: %v", name, err)
	}
	return pod, nil
}

func (c *kubeClient) DeletePod(ctx context.Context, name string) error {
	err := c.clientset.CoreV1().Pods(c.namespace).Delete(ctx, name, metav1.DeleteOptions{})
	if apierrors.IsNotFound(err) {
		return NotFoundErr.Errorf("pod %s not found", name)
	}
	if err != nil {
		return GenericErr.Errorf("unable to delete pod %s: %v", name, err)
	}
	return nil
}
