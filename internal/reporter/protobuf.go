package reporter

import (
	"fmt"
	"os"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

// ProtobufReporter serializes a Report as a protobuf wire message,
// describing its own schema at runtime via a hand-assembled
// descriptorpb.FileDescriptorProto rather than a compiled .proto file
// — the analyzer never shells out to protoc. One "records" entry per
// function, pipe-delimited (module.function/arity|effect|tag|type),
// matching the teacher's own dynamic, descriptor-driven proto handling
// in internal/evaluator/builtins_grpc.go (jhump/protoreflect's desc +
// dynamic packages there serve the same "build a message with no
// generated Go type" need this adapter has).
type ProtobufReporter struct {
	Path string
}

func reportFileDescriptor() *descriptorpb.FileDescriptorProto {
	label := descriptorpb.FieldDescriptorProto_LABEL_REPEATED
	typ := descriptorpb.FieldDescriptorProto_TYPE_STRING
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("effect_report.proto"),
		Package: proto.String("efx"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("Report"),
				Field: []*descriptorpb.FieldDescriptorProto{
					{
						Name:     proto.String("records"),
						Number:   proto.Int32(1),
						Label:    label.Enum(),
						Type:     typ.Enum(),
						JsonName: proto.String("records"),
					},
					{
						Name:     proto.String("diagnostics"),
						Number:   proto.Int32(2),
						Label:    label.Enum(),
						Type:     typ.Enum(),
						JsonName: proto.String("diagnostics"),
					},
				},
			},
		},
	}
}

func recordLine(r Record) string {
	return fmt.Sprintf("%s.%s/%d|%s|%s|%s", r.Module, r.Function, r.Arity, r.Effect, r.Tag, r.Type)
}

func (p *ProtobufReporter) Write(report Report) error {
	fd, err := protodesc.NewFile(reportFileDescriptor(), &protoregistry.Files{})
	if err != nil {
		return fmt.Errorf("building report descriptor: %w", err)
	}
	md := fd.Messages().Get(0)

	msg := dynamicpb.NewMessage(md)

	recordsField := md.Fields().ByName("records")
	recordsList := msg.Mutable(recordsField).List()
	for _, r := range report.Records {
		recordsList.Append(protoreflect.ValueOfString(recordLine(r)))
	}

	diagField := md.Fields().ByName("diagnostics")
	diagList := msg.Mutable(diagField).List()
	for _, d := range report.Diagnostics {
		diagList.Append(protoreflect.ValueOfString(d))
	}

	data, err := proto.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(p.Path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", p.Path, err)
	}
	return nil
}
