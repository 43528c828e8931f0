// Package wire carries moves between a front end and an isolated
// engine worker over gRPC. The messages mirror connectn.proto.
package wire

import (
	proto "github.com/golang/protobuf/proto"
)

type Snapshot struct {
	Width      int32   `protobuf:"varint,1,opt,name=width,proto3" json:"width,omitempty"`
	Height     int32   `protobuf:"varint,2,opt,name=height,proto3" json:"height,omitempty"`
	Connect    int32   `protobuf:"varint,3,opt,name=connect,proto3" json:"connect,omitempty"`
	Cells      []int32 `protobuf:"varint,4,rep,packed,name=cells,proto3" json:"cells,omitempty"`
	Potential0 []int64 `protobuf:"varint,5,rep,packed,name=potential0,proto3" json:"potential0,omitempty"`
	Potential1 []int64 `protobuf:"varint,6,rep,packed,name=potential1,proto3" json:"potential1,omitempty"`
	Score0     int64   `protobuf:"varint,7,opt,name=score0,proto3" json:"score0,omitempty"`
	Score1     int64   `protobuf:"varint,8,opt,name=score1,proto3" json:"score1,omitempty"`
	Winner     int32   `protobuf:"varint,9,opt,name=winner,proto3" json:"winner,omitempty"`
	Pieces     int32   `protobuf:"varint,10,opt,name=pieces,proto3" json:"pieces,omitempty"`
}

func (m *Snapshot) Reset()         { *m = Snapshot{} }
func (m *Snapshot) String() string { return proto.CompactTextString(m) }
func (*Snapshot) ProtoMessage()    {}

type MoveRequest struct {
	Player   int32     `protobuf:"varint,1,opt,name=player,proto3" json:"player,omitempty"`
	Depth    int32     `protobuf:"varint,2,opt,name=depth,proto3" json:"depth,omitempty"`
	Snapshot *Snapshot `protobuf:"bytes,3,opt,name=snapshot,proto3" json:"snapshot,omitempty"`
	Seed     int64     `protobuf:"varint,4,opt,name=seed,proto3" json:"seed,omitempty"`
	Column   int32     `protobuf:"varint,5,opt,name=column,proto3" json:"column,omitempty"`
}

func (m *MoveRequest) Reset()         { *m = MoveRequest{} }
func (m *MoveRequest) String() string { return proto.CompactTextString(m) }
func (*MoveRequest) ProtoMessage()    {}

type MoveResponse struct {
	Column   int32     `protobuf:"varint,1,opt,name=column,proto3" json:"column,omitempty"`
	Row      int32     `protobuf:"varint,2,opt,name=row,proto3" json:"row,omitempty"`
	Snapshot *Snapshot `protobuf:"bytes,3,opt,name=snapshot,proto3" json:"snapshot,omitempty"`
	Value    int64     `protobuf:"varint,4,opt,name=value,proto3" json:"value,omitempty"`
	Book     bool      `protobuf:"varint,5,opt,name=book,proto3" json:"book,omitempty"`
}

func (m *MoveResponse) Reset()         { *m = MoveResponse{} }
func (m *MoveResponse) String() string { return proto.CompactTextString(m) }
func (*MoveResponse) ProtoMessage()    {}

func init() {
	proto.RegisterType((*Snapshot)(nil), "connectn.Snapshot")
	proto.RegisterType((*MoveRequest)(nil), "connectn.MoveRequest")
	proto.RegisterType((*MoveResponse)(nil), "connectn.MoveResponse")
}
