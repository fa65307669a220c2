package factory

import (
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type podBuilder struct {
	corev1.Pod
}

func (b *podBuilder) WithContainer(c corev1.Container) *podBuilder {
	b.Spec.Containers = append(b.Spec.Containers, c)
	return b
}

func (b *podBuilder) WithInitContainer(c corev1.Container) *podBuilder {
	b.Spec.InitContainers = append(b.Spec.InitContainers, c)
	return b
}

func (b *podBuilder) WithLabel(label, value string) *podBuilder {
	if b.Labels == nil {
		b.Labels = make(map[string]string)
	}
	b.Labels[label] = value
	return b
}

func (b *podBuilder) Get() corev1.Pod {
	return b.Pod
}

func BuildPod(namespace, name string) *podBuilder {
	pod := corev1.Pod{
		TypeMeta: metav1.TypeMeta{
			Kind:       "Pod",
			APIVersion: corev1.SchemeGroupVersion.String(),
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
		},
	}
	return &podBuilder{pod}
}

type containerBuilder struct {
	corev1.Container
}

func (b *containerBuilder) WithImage(image string) *containerBuilder {
	b.Container.Image = image
	return b
}

func (b *containerBuilder) Get() corev1.Container {
	return b.Container
}

func BuildContainer(name string) *containerBuilder {
	return &containerBuilder{corev1.Container{Name: name}}
}

type jobStatusBuilder struct {
	batchv1.JobStatus
}

func (b *jobStatusBuilder) WithCounts(active, succeeded, failed int32) *jobStatusBuilder {
	b.Active = active
	b.Succeeded = succeeded
	b.Failed = failed
	return b
}

func (b *jobStatusBuilder) WithStartTime(t metav1.Time) *jobStatusBuilder {
	b.StartTime = &t
	return b
}

func (b *jobStatusBuilder) WithCompletionTime(t metav1.Time) *jobStatusBuilder {
	b.CompletionTime = &t
	return b
}

func (b *jobStatusBuilder) WithCondition(conditionType batchv1.JobConditionType, status corev1.ConditionStatus, reason string) *jobStatusBuilder {
	b.Conditions = append(b.Conditions, batchv1.JobCondition{
		Type:   conditionType,
		Status: status,
		Reason: reason,
	})
	return b
}

func (b *jobStatusBuilder) Get() batchv1.JobStatus {
	return b.JobStatus
}

func BuildJobStatus() *jobStatusBuilder {
	return &jobStatusBuilder{}
}
